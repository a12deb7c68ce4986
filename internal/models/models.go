package models

// User is a registered user of the portal.
type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Role     string `json:"role" db:"role"`
}

// LocationAlert is a user-submitted alert pinned to coordinates.
type LocationAlert struct {
	ID           int     `json:"id" db:"id"`
	Latitude     float64 `json:"latitude" db:"latitude"`
	Longitude    float64 `json:"longitude" db:"longitude"`
	AlertMessage string  `json:"alert_message" db:"alert_message"`
}

// ClimateIssue is a reported climate issue for a country or region.
type ClimateIssue struct {
	ID               int    `json:"id" db:"id"`
	Country          string `json:"country" db:"country"`
	IssueDescription string `json:"issue_description" db:"issue_description"`
	Severity         int    `json:"severity" db:"severity"`
}

// DashboardStats aggregates climate issues for the dashboard view.
type DashboardStats struct {
	TotalIssues     int     `json:"total_issues"`
	AverageSeverity float64 `json:"average_severity"`
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// WorldMapIssue is a climate issue joined with its country's coordinates.
type WorldMapIssue struct {
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Issue    string  `json:"issue"`
	Severity int     `json:"severity"`
}
