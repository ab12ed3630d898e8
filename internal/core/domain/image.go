package domain

// OwnerProfile is the reduced projection of a user's public fields that gets
// joined onto image records in list/detail responses.
type OwnerProfile struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarURL,omitempty"`
}

// Image is a persisted diagnosis record owned by exactly one user.
type Image struct {
	ImageID     string  `json:"imageID"`
	OwnerID     string  `json:"ownerID"`
	ImageURL    string  `json:"imageURL"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Disease     string  `json:"disease"`
	Confidence  float64 `json:"confidence"` // 0-100

	// Owner is populated on reads that join the owner projection; nil otherwise.
	Owner *OwnerProfile `json:"owner,omitempty"`

	AuditFields
}

// ImagePage is one page of a user's records, newest first.
type ImagePage struct {
	Images      []Image `json:"images"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalImages int64   `json:"totalImages"`
}
