package storeerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/go-signup/internal/database"
	"github.com/deppfellow/go-signup/internal/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HandleError converts an error from the database layer into an
// *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged (validation failures)
//   - DuplicateKey: 400 <ENTITY>_ALREADY_EXISTS
//   - ConnectionFailed, NotInitialized: 503
//   - anything else: 500
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var dbErr *database.Error
	if !errors.As(err, &dbErr) {
		return errs.NewInternalServerError()
	}

	switch dbErr.Code {
	case database.DuplicateKey:
		errorCode := generateErrorCode(dbErr.Collection, dbErr.Code)
		return errs.NewBadRequestError(formatUserFriendlyMessage(dbErr), true, &errorCode, nil, nil)

	case database.ConnectionFailed, database.NotInitialized:
		return errs.NewServiceUnavailableError("The service is temporarily unavailable, please try again later")

	default:
		return errs.NewInternalServerError()
	}
}

// generateErrorCode builds a stable <DOMAIN>_<ACTION> code, e.g.
// User + DuplicateKey -> USER_ALREADY_EXISTS.
func generateErrorCode(collection string, code database.Code) string {
	if collection == "" {
		collection = "RECORD"
	}

	domain := strings.ToUpper(collection)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch code {
	case database.DuplicateKey:
		action = "ALREADY_EXISTS"
	case database.NotInitialized, database.ConnectionFailed:
		action = "UNAVAILABLE"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(dbErr *database.Error) string {
	entityName := getEntityName(dbErr.Collection)

	switch dbErr.Code {
	case database.DuplicateKey:
		field := dbErr.Field
		if field == "" {
			field = extractFieldForDuplicateKey(dbErr.Error())
		}
		identifier := "identifier"
		if field != "" && field != "_id" {
			identifier = humanizeText(field)
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName, identifier)
	default:
		return "An error occurred while processing your request"
	}
}

var duplicateIndexRe = regexp.MustCompile(`index: (\S+?)_-?1 dup key`)

// extractFieldForDuplicateKey recovers the field from a store message like
// "E11000 duplicate key error collection: signup.User index: email_1 dup key: ...".
// Single-field ascending or descending index names are "<field>_1" or "<field>_-1".
func extractFieldForDuplicateKey(message string) string {
	matches := duplicateIndexRe.FindStringSubmatch(message)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// getEntityName singularizes and humanizes a collection name:
// "users" -> "User", "email_codes" -> "Email Code".
func getEntityName(collection string) string {
	if collection == "" {
		return "record"
	}

	entity := collection
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return humanizeText(entity)
}

// humanizeText converts snake_case and camelCase into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range text {
		if r >= 'A' && r <= 'Z' && i > 0 && text[i-1] != '_' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}

	return cases.Title(language.English).String(strings.ReplaceAll(b.String(), "_", " "))
}
