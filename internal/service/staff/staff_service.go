package staff

import (
	"context"
	"net/http"

	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
)

type StaffUseCase interface {
	Login(ctx context.Context, code string) (*commerce.Response, bool, error)
}

type Upstream interface {
	Do(ctx context.Context, req commerce.Request) (*commerce.Response, error)
}

type StaffService struct {
	upstream Upstream
}

func NewStaffService(upstream Upstream) *StaffService {
	return &StaffService{upstream: upstream}
}

// Login forwards the access code. The boolean reports whether a staff session
// should be opened for the caller.
func (s *StaffService) Login(ctx context.Context, code string) (*commerce.Response, bool, error) {
	resp, err := s.upstream.Do(ctx, commerce.Request{
		Method: http.MethodPost,
		Path:   "/staff/login",
		Body:   domain.StaffLogin{Code: code},
	})
	if err != nil {
		return resp, false, err
	}
	return resp, resp.OK() && resp.Get("success").Bool(), nil
}

var _ StaffUseCase = (*StaffService)(nil)
