package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorRenderer renders an error template with the given data. Keeping it a
// function type lets handlers plug in full-page or partial rendering.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the error that occurred (optional, can be nil if only field errors)
	Err error
	// FieldErrors contains field-level validation errors (field name → message)
	FieldErrors map[string]string
	// Renderer is typically h.renderPortalPage
	Renderer ErrorRenderer
	PageMeta PageMeta
	// Data carries additional template data, e.g. preserved form values
	Data map[string]any
	// StatusCode defaults to 200 for HTMX compatibility when zero
	StatusCode int
	// ShowToast sends an HX-Trigger showToast event with the error message
	ShowToast bool
}

// DetermineErrorStatus returns http.StatusConflict for foreign key
// violations and 0 otherwise. Zero means use the default behavior.
func DetermineErrorStatus(err error) int {
	if err == nil {
		return 0
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return http.StatusConflict
	}
	return 0
}

// RenderError renders an error response using consistent error handling.
// Database errors (unique constraints, foreign keys) are mapped to
// user-friendly messages; field-level validation errors are merged in.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	generalError := processError(opts.Err, &opts.FieldErrors)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}

	if generalError != "" {
		builder.WithError(generalError)
	} else if len(opts.FieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		triggerToast(opts.W, generalError, "error")
	}

	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError returns a user-friendly message for err and may add
// field-level entries to fieldErrors. Returns empty string when err is nil.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "A solicitação expirou. Tente novamente."
	}
	if errors.Is(err, context.Canceled) {
		return "A solicitação foi cancelada."
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return processDBError(pgErr, fieldErrors)
	}

	return "Ocorreu um erro. Tente novamente."
}

func processDBError(pgErr *pgconn.PgError, fieldErrors *map[string]string) string {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return handleUniqueViolation(pgErr, fieldErrors)
	case pgerrcode.ForeignKeyViolation:
		return handleForeignKeyViolation(pgErr)
	case pgerrcode.CheckViolation:
		return handleConstraintViolation(pgErr, fieldErrors, "Este campo tem um valor inválido.")
	case pgerrcode.NotNullViolation:
		return handleConstraintViolation(pgErr, fieldErrors, "Este campo é obrigatório.")
	default:
		return "Ocorreu um erro no banco de dados. Tente novamente."
	}
}

// handleUniqueViolation prefers ColumnName metadata, falling back to
// inferring the field from the constraint name (e.g. "accounts_email_key").
func handleUniqueViolation(pgErr *pgconn.PgError, fieldErrors *map[string]string) string {
	field := pgErr.ColumnName
	if field == "" {
		field = inferFieldFromConstraint(pgErr.ConstraintName)
	}

	if field != "" && fieldErrors != nil {
		if *fieldErrors == nil {
			*fieldErrors = make(map[string]string)
		}
		(*fieldErrors)[field] = "Este valor já está em uso. Escolha outro."
		return errMsgFixBelow
	}

	return "Este valor já está em uso. Escolha outro."
}

// handleForeignKeyViolation provides context-aware messages using PgError
// metadata when available, falling back to constraint name heuristics.
func handleForeignKeyViolation(pgErr *pgconn.PgError) string {
	constraintName := strings.ToLower(pgErr.ConstraintName)

	if strings.Contains(constraintName, "material") {
		return "Não é possível excluir porque há materiais vinculados."
	}
	if strings.Contains(constraintName, "campaign") {
		return "Não é possível excluir porque há campanhas vinculadas."
	}
	if strings.Contains(constraintName, "document") {
		return "Não é possível excluir porque há documentos vinculados."
	}
	if pgErr.TableName != "" {
		return "Não é possível concluir a operação: registro em uso por " + pgErr.TableName + "."
	}

	return "Não é possível concluir a operação: registro em uso."
}

func handleConstraintViolation(pgErr *pgconn.PgError, fieldErrors *map[string]string, fieldMsg string) string {
	if pgErr.ColumnName != "" && fieldErrors != nil {
		if *fieldErrors == nil {
			*fieldErrors = make(map[string]string)
		}
		(*fieldErrors)[pgErr.ColumnName] = fieldMsg
		return errMsgFixBelow
	}
	return "Dados inválidos. Verifique as informações e tente novamente."
}

// inferFieldFromConstraint attempts to infer the field name from a
// constraint name like "accounts_email_key". Returns empty string when
// inference is ambiguous (multi-column constraints, expression indexes).
func inferFieldFromConstraint(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	parts := strings.Split(constraintName, "_")
	if len(parts) != 3 {
		return ""
	}

	fieldCandidate := parts[1]
	if isFunctionName(fieldCandidate) {
		return ""
	}
	return fieldCandidate
}

// isFunctionName checks if a string looks like a common SQL function name
// used in expression indexes.
func isFunctionName(s string) bool {
	switch strings.ToLower(s) {
	case "lower", "upper", "trim", "ltrim", "rtrim", "md5", "encode", "decode":
		return true
	default:
		return false
	}
}
