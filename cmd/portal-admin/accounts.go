package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/clientus/portal/internal/data"
	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/domain/model"
)

type listAccountsOptions struct {
	Query  string
	Role   string
	Status string
	Limit  int
	Offset int
}

func runListAccounts(cmdCtx *commandContext, args []string) error {
	opts, err := parseListAccountsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, time.Minute, func(ctx context.Context, db *sql.DB) error {
		listOpts := model.AccountListOptions{
			Limit:  opts.Limit,
			Offset: opts.Offset,
		}
		if opts.Query != "" {
			listOpts.Q = &opts.Query
		}
		if opts.Role != "" {
			role := domainauth.Role(opts.Role)
			listOpts.Role = &role
		}
		if opts.Status != "" {
			status := domainauth.AccountStatus(opts.Status)
			listOpts.Status = &status
		}

		accounts, listErr := data.NewAccountRepo(db).List(ctx, listOpts)
		if listErr != nil {
			return listErr
		}
		return printAccounts(accounts)
	})
}

func printAccounts(accounts []*model.Account) error {
	if len(accounts) == 0 {
		return writeln(os.Stdout, "(no accounts found)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tName\tEmail\tRole\tStatus\tCreated"); err != nil {
		return err
	}
	for _, a := range accounts {
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.Name,
			a.Email,
			a.Role,
			a.Status,
			a.CreatedAt.Format("2006-01-02"),
		); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush account table: %w", err)
	}
	return nil
}

func parseListAccountsFlags(args []string) (listAccountsOptions, error) {
	fs := flag.NewFlagSet("list-accounts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listAccountsOptions
	fs.StringVar(&opts.Query, "q", "", "Filter by name substring (case-insensitive)")
	fs.StringVar(&opts.Role, "role", "", "Filter by role (admin or client)")
	fs.StringVar(&opts.Status, "status", "", "Filter by status (active, inactive, or pending)")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum rows to display")
	fs.IntVar(&opts.Offset, "offset", 0, "Offset for paging through results")

	if err := fs.Parse(args); err != nil {
		return listAccountsOptions{}, err
	}

	opts.Query = strings.TrimSpace(opts.Query)
	opts.Role = strings.ToLower(strings.TrimSpace(opts.Role))
	opts.Status = strings.ToLower(strings.TrimSpace(opts.Status))

	if opts.Role != "" && !domainauth.Role(opts.Role).Valid() {
		return listAccountsOptions{}, fmt.Errorf("invalid role %q", opts.Role)
	}
	if opts.Status != "" && !domainauth.AccountStatus(opts.Status).Valid() {
		return listAccountsOptions{}, fmt.Errorf("invalid status %q", opts.Status)
	}
	if opts.Limit <= 0 {
		return listAccountsOptions{}, errors.New("--limit must be greater than zero")
	}

	return opts, nil
}
