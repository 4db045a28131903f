package service

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"task-manager/internal/apperr"
)

const (
	msgRequired   = "This field is required."
	msgBlank      = "This field may not be blank."
	titleMaxLen   = 100
	usernameMax   = 100
	nameMaxLen    = 150
	emailMaxLen   = 254
	passwordMaxLn = 128
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func checkTitle(fields apperr.FieldErrors, field, title string) {
	switch {
	case title == "":
		fields.Add(field, msgBlank)
	case utf8.RuneCountInString(title) > titleMaxLen:
		fields.Add(field, maxLenMessage(titleMaxLen))
	}
}

func checkUsername(fields apperr.FieldErrors, username string) {
	switch {
	case username == "":
		fields.Add("username", msgBlank)
	case utf8.RuneCountInString(username) > usernameMax:
		fields.Add("username", maxLenMessage(usernameMax))
	case !usernamePattern.MatchString(username):
		fields.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
}

func checkName(fields apperr.FieldErrors, field, value string) {
	if utf8.RuneCountInString(value) > nameMaxLen {
		fields.Add(field, maxLenMessage(nameMaxLen))
	}
}

func checkEmail(fields apperr.FieldErrors, email string) {
	if email == "" {
		return
	}
	if len(email) > emailMaxLen || !emailPattern.MatchString(email) {
		fields.Add("email", "Enter a valid email address.")
	}
}

func checkPassword(fields apperr.FieldErrors, password string) {
	switch {
	case password == "":
		fields.Add("password", msgBlank)
	case len(password) > passwordMaxLn:
		fields.Add("password", maxLenMessage(passwordMaxLn))
	}
}

func maxLenMessage(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}
