package server

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const minReplyLength = 10

func validateID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func requirePathID(r *http.Request, key string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, key))
	if !validateID(id) {
		return "", badRequestCode(fmt.Errorf("invalid id"), ErrCodeInvalidID)
	}
	return id, nil
}

func requireIDs(ids []string) error {
	if len(ids) == 0 {
		return badRequestCode(fmt.Errorf("ids are required"), ErrCodeMissingRequired)
	}
	for _, id := range ids {
		if !validateID(id) {
			return badRequestCode(fmt.Errorf("invalid id: %s", id), ErrCodeInvalidID)
		}
	}
	return nil
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

func requireField(fields *[]fieldError, name, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		*fields = append(*fields, fieldError{Field: name, Message: name + " is required"})
	}
	return value
}

type contactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Phone   string `json:"phone"`
}

func (c *contactSubmission) validate() error {
	var fields []fieldError
	c.Name = requireField(&fields, "name", c.Name)
	c.Email = requireField(&fields, "email", c.Email)
	c.Subject = requireField(&fields, "subject", c.Subject)
	c.Message = requireField(&fields, "message", c.Message)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Email != "" && !validEmail(c.Email) {
		fields = append(fields, fieldError{Field: "email", Message: "invalid email address"})
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

type applicationSubmission struct {
	FullName    string
	Email       string
	Phone       string
	Position    string
	Experience  string
	CoverLetter string
}

func (a *applicationSubmission) validate() error {
	var fields []fieldError
	a.FullName = requireField(&fields, "full_name", a.FullName)
	a.Email = requireField(&fields, "email", a.Email)
	a.Phone = requireField(&fields, "phone", a.Phone)
	a.Position = requireField(&fields, "position", a.Position)
	a.Experience = requireField(&fields, "experience", a.Experience)
	a.CoverLetter = strings.TrimSpace(a.CoverLetter)
	if a.Email != "" && !validEmail(a.Email) {
		fields = append(fields, fieldError{Field: "email", Message: "invalid email address"})
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func validateReplyMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if len(message) < minReplyLength {
		return "", badRequestCode(
			fmt.Errorf("reply message must be at least %d characters", minReplyLength),
			ErrCodeReplyTooShort)
	}
	return message, nil
}
