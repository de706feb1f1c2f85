package documents

import "time"

type Category string

const (
	CategoryContract       Category = "contract"
	CategoryCertification  Category = "certification"
	CategoryMedical        Category = "medical"
	CategoryIdentification Category = "identification"
	CategoryOther          Category = "other"
)

var Categories = []string{
	string(CategoryContract),
	string(CategoryCertification),
	string(CategoryMedical),
	string(CategoryIdentification),
	string(CategoryOther),
}

// Document is immutable once uploaded.
type Document struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileType   *string   `json:"fileType"`
	Category   Category  `json:"category"`
	UploadedBy *string   `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UploadInput carries the file as one base64 payload.
type UploadInput struct {
	EmployeeID string `json:"employeeId"`
	FileName   string `json:"fileName"`
	FileData   string `json:"fileData"`
	FileType   string `json:"fileType"`
	Category   string `json:"category"`
}
