package github

import "fmt"

var (
	ErrNoRelease = fmt.Errorf("no release found")
	ErrBadRepo   = fmt.Errorf("invalid repo format, expected owner/repo")
)

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api status %d: %s", e.Status, e.Body)
}
