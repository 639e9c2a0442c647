package model

type Profile struct {
	FirstName        string  `json:"first_name"`
	MiddleName       *string `json:"middle_name"`
	LastName         string  `json:"last_name"`
	MobileNumber     string  `json:"mobile_number"`
	IsAadharVerified bool    `json:"is_aadhar_verified"`
	AadhaarNumber    *string `json:"aadhaar_number"`
	DateOfBirth      *string `json:"date_of_birth"`
	Age              *int    `json:"age"`
	Address          *string `json:"address"`
	LastUpdatedAt    string  `json:"last_updated_at,omitempty"`
}
