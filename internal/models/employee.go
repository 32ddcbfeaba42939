package models

// Employee represents an entry of the backend's employee directory.
type Employee struct {
	ID        int    `json:"id"`
	FullName  string `json:"fullname"`
	ShortName string `json:"shortname"`
	Position  string `json:"position"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber"`
	Avatar    string `json:"avatar,omitempty"`
}

// Label is a tag definition from the label directory.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Attachment is the backend's description of an uploaded file.
type Attachment struct {
	ID       string `json:"id"`
	TaskID   string `json:"taskId"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

const UserAgent = "hestia/1.0 (+https://github.com/UnknownOlympus/hestia)"
