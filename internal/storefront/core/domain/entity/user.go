package entity

// User is the signed-in account as returned by GET /v1/users/me.
type User struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Nickname      string `json:"nickname"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Gender        string `json:"gender,omitempty"`
	AgeRange      string `json:"ageRange,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressDetail string `json:"addressDetail,omitempty"`
	IsRegister    bool   `json:"isRegister"`
}

// ProfileUpdate is the PATCH /v1/users/me payload. Signup completion sets
// IsRegister and carries the terms agreement.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender,omitempty"`
	AgeRange string `json:"ageRange,omitempty"`

	IsRegister bool `json:"isRegister"`

	AgreeAllTerms    bool `json:"agreeAllTerms"`
	RequiredTerms    bool `json:"requiredTerms"`
	PrivateInfoTerms bool `json:"privateInfoTerms"`
	MarketingTerms   bool `json:"marketingTerms"`
}
