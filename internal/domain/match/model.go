package match

import "strings"

const (
	StatusScheduled = "SCHEDULED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Match is one fixture an admin scheduled for a club. Date and Time are kept
// as the literal strings referees submitted against ("2006-01-02", "15:04");
// assignment collision checks compare them byte-for-byte.
type Match struct {
	ID          string
	ClubID      string
	Description string
	Date        string
	Time        string
	Location    string
	Status      string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusScheduled, StatusCancelled, StatusPostponed:
		return true
	default:
		return false
	}
}
