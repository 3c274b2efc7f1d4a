package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/common"
	"github.com/dmitrijs2005/wikied/internal/netx"
)

// ProfileAPI is the part of the API client ProfileService needs.
type ProfileAPI interface {
	Me(ctx context.Context) (*models.User, error)
	GetProfile(ctx context.Context, code string) (*models.Profile, error)
	ListProfiles(ctx context.Context, page, pageSize int, name string) (*models.ProfileList, error)
	CreateProfile(ctx context.Context, req models.CreateProfileRequest) (*models.Profile, error)
	UpdateProfile(ctx context.Context, code string, req models.UpdateProfileRequest) (*models.Profile, error)
	CheckPing(ctx context.Context, code string) (models.PingStatus, error)
	SubmitPing(ctx context.Context, code, answer string) (*models.PingResponse, error)
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// ProfileService reads and writes wiki profiles and drives the ping
// endpoint that gates editing.
type ProfileService interface {
	Get(ctx context.Context, code string) (*models.Profile, error)
	// Mine fetches the signed-in user's own wiki, or ErrNoProfile.
	Mine(ctx context.Context) (*models.Profile, error)
	List(ctx context.Context, page, pageSize int, name string) (*models.ProfileList, error)
	Create(ctx context.Context, question, answer string) (*models.Profile, error)
	// Update sends the whole document: every descriptive field and content.
	Update(ctx context.Context, code string, p models.Profile) (*models.Profile, error)
	CheckPing(ctx context.Context, code string) (models.PingStatus, error)
	SubmitAnswer(ctx context.Context, code, answer string) (*models.PingResponse, error)
	// UploadImage sends the image at path and returns its hosted URL.
	UploadImage(ctx context.Context, path string) (string, error)
}

type profileService struct {
	api    ProfileAPI
	tokens TokenStore
}

func NewProfileService(api ProfileAPI, tokens TokenStore) ProfileService {
	return &profileService{api: api, tokens: tokens}
}

func (s *profileService) Get(ctx context.Context, code string) (*models.Profile, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("code", "위키 코드를 입력해 주세요.")
	}
	p, err := s.api.GetProfile(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get wiki %s: %w", code, err)
	}
	return p, nil
}

func (s *profileService) Mine(ctx context.Context) (*models.Profile, error) {
	if !s.tokens.IsAuthenticated() {
		return nil, common.ErrNotAuthenticated
	}
	u, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	if !u.HasProfile() {
		return nil, ErrNoProfile
	}
	return s.Get(ctx, u.Profile.Code)
}

func (s *profileService) List(ctx context.Context, page, pageSize int, name string) (*models.ProfileList, error) {
	l, err := s.api.ListProfiles(ctx, page, pageSize, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("list wikis: %w", err)
	}
	return l, nil
}

func (s *profileService) Create(ctx context.Context, question, answer string) (*models.Profile, error) {
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if question == "" {
		return nil, invalid("securityQuestion", "질문을 입력해 주세요.")
	}
	if answer == "" {
		return nil, invalid("securityAnswer", "답을 입력해 주세요.")
	}
	if !s.tokens.IsAuthenticated() {
		return nil, common.ErrNotAuthenticated
	}
	p, err := s.api.CreateProfile(ctx, models.CreateProfileRequest{SecurityQuestion: question, SecurityAnswer: answer})
	if err != nil {
		return nil, fmt.Errorf("create wiki: %w", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, code string, p models.Profile) (*models.Profile, error) {
	saved, err := s.api.UpdateProfile(ctx, code, p.UpdateRequest())
	if err != nil {
		return nil, fmt.Errorf("update wiki %s: %w", code, err)
	}
	return saved, nil
}

func (s *profileService) CheckPing(ctx context.Context, code string) (models.PingStatus, error) {
	st, err := s.api.CheckPing(ctx, code)
	if err != nil {
		return models.PingStatus{}, fmt.Errorf("check ping %s: %w", code, err)
	}
	return st, nil
}

func (s *profileService) SubmitAnswer(ctx context.Context, code, answer string) (*models.PingResponse, error) {
	res, err := s.api.SubmitPing(ctx, code, answer)
	if err != nil {
		return nil, fmt.Errorf("submit answer %s: %w", code, err)
	}
	return res, nil
}

func (s *profileService) UploadImage(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if info.IsDir() {
		return "", invalid("image", "파일을 선택해 주세요.")
	}
	if info.Size() > netx.MaxImageSize {
		return "", invalid("image", "5MB 이하의 이미지만 업로드할 수 있습니다.")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	url, err := s.api.UploadImage(ctx, filepath.Base(path), data)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}
