package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
	MaxPostLength     = 280
)

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	reservedUsernames = map[string]struct{}{
		"admin": {}, "root": {}, "api": {}, "www": {}, "mail": {}, "ftp": {},
		"test": {}, "demo": {}, "user": {}, "guest": {}, "null": {}, "undefined": {},
	}
)

// validateUsername checks format and constraints of a username.
func validateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return validationError("username must be at least 3 characters long")
	}
	if len(username) > MaxUsernameLength {
		return validationError("username must be no more than 20 characters long")
	}
	if !usernamePattern.MatchString(username) {
		return validationError("username must start with a letter and contain only letters, numbers, and underscores")
	}
	if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
		return validationError("this username is reserved and cannot be used")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return validationError("password must be at least 6 characters long")
	}
	if len(password) > MaxPasswordLength {
		return validationError("password must be no more than 72 bytes long")
	}
	return nil
}

// normalizeContent trims surrounding whitespace and enforces the post length bounds.
func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", validationError("content must not be empty")
	}
	if !utf8.ValidString(content) {
		return "", validationError("content must be valid UTF-8")
	}
	if utf8.RuneCountInString(content) > MaxPostLength {
		return "", validationError("content must be no more than 280 characters long")
	}
	return content, nil
}
