package models

import (
	"fmt"
	"slices"
	"time"
)

// Profile is a wiki document.
type Profile struct {
	ID               int       `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Image            string    `json:"image"`
	City             string    `json:"city"`
	MBTI             string    `json:"mbti"`
	Job              string    `json:"job"`
	SNS              string    `json:"sns"`
	Birthday         string    `json:"birthday"`
	Nickname         string    `json:"nickname"`
	BloodType        string    `json:"bloodType"`
	Family           string    `json:"family"`
	Nationality      string    `json:"nationality"`
	Content          string    `json:"content"`
	SecurityQuestion string    `json:"securityQuestion"`
	TeamID           string    `json:"teamId"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ProfileFields are the descriptive fields, in display order.
var ProfileFields = []string{"city", "mbti", "job", "sns", "birthday", "nickname", "bloodType", "nationality", "family", "image"}

// FieldLabels are the Korean labels the web client shows for each field.
var FieldLabels = map[string]string{
	"city":        "거주 도시",
	"mbti":        "MBTI",
	"job":         "직업",
	"sns":         "SNS 계정",
	"birthday":    "생일",
	"nickname":    "별명",
	"bloodType":   "혈액형",
	"nationality": "국적",
	"family":      "가족 관계",
	"image":       "프로필 이미지",
}

// IsProfileField reports whether name is an editable descriptive field.
func IsProfileField(name string) bool {
	return slices.Contains(ProfileFields, name)
}

// Field returns the value of a descriptive field.
func (p *Profile) Field(name string) (string, error) {
	ptr, err := p.fieldPtr(name)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// SetField sets a descriptive field.
func (p *Profile) SetField(name, value string) error {
	ptr, err := p.fieldPtr(name)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

func (p *Profile) fieldPtr(name string) (*string, error) {
	switch name {
	case "city":
		return &p.City, nil
	case "mbti":
		return &p.MBTI, nil
	case "job":
		return &p.Job, nil
	case "sns":
		return &p.SNS, nil
	case "birthday":
		return &p.Birthday, nil
	case "nickname":
		return &p.Nickname, nil
	case "bloodType":
		return &p.BloodType, nil
	case "nationality":
		return &p.Nationality, nil
	case "family":
		return &p.Family, nil
	case "image":
		return &p.Image, nil
	default:
		return nil, fmt.Errorf("unknown profile field %q", name)
	}
}

// UpdateProfileRequest is the full-document PATCH body.
type UpdateProfileRequest struct {
	SecurityAnswer   string `json:"securityAnswer,omitempty"`
	SecurityQuestion string `json:"securityQuestion,omitempty"`
	Nationality      string `json:"nationality"`
	Family           string `json:"family"`
	BloodType        string `json:"bloodType"`
	Nickname         string `json:"nickname"`
	Birthday         string `json:"birthday"`
	SNS              string `json:"sns"`
	Job              string `json:"job"`
	MBTI             string `json:"mbti"`
	City             string `json:"city"`
	Image            string `json:"image"`
	Content          string `json:"content"`
}

// UpdateRequest builds the PATCH body carrying every field of p.
func (p *Profile) UpdateRequest() UpdateProfileRequest {
	return UpdateProfileRequest{
		Nationality: p.Nationality,
		Family:      p.Family,
		BloodType:   p.BloodType,
		Nickname:    p.Nickname,
		Birthday:    p.Birthday,
		SNS:         p.SNS,
		Job:         p.Job,
		MBTI:        p.MBTI,
		City:        p.City,
		Image:       p.Image,
		Content:     p.Content,
	}
}

type CreateProfileRequest struct {
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

// ProfileSummary is an item of the profile list.
type ProfileSummary struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	City      string    `json:"city"`
	Job       string    `json:"job"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfileList struct {
	List       []ProfileSummary `json:"list"`
	TotalCount int              `json:"totalCount"`
}
