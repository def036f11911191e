// internal/service/tenant/tenant.go
package tenant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"academy-service/internal/domain/academy"
	xerrors "academy-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// HeaderOrgSlug carries the tenant slug when it is not part of the path.
const HeaderOrgSlug = "x-org-slug"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type AcademyFinder interface {
	FindBySlug(ctx context.Context, slug string) (*academy.Academy, error)
}

type Service struct {
	academies AcademyFinder
	logger    *zap.Logger
}

func NewService(academies AcademyFinder, logger *zap.Logger) *Service {
	return &Service{academies: academies, logger: logger}
}

// Resolve looks up the academy owning slug. A missing or malformed slug is a
// NotFound resolution, not an error; only store failures are returned as errors.
func (s *Service) Resolve(ctx context.Context, slug string) (academy.Resolution, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return academy.NotFound(), nil
	}

	a, err := s.academies.FindBySlug(ctx, slug)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		s.logger.Debug("tenant not found", zap.String("slug", slug))
		return academy.NotFound(), nil
	}
	if err != nil {
		return academy.NotFound(), fmt.Errorf("failed to resolve tenant %q: %w", slug, err)
	}

	return academy.Found(a), nil
}

// SlugFrom picks the path segment when present and falls back to the header value.
func SlugFrom(pathSlug, header string) string {
	if s := strings.TrimSpace(pathSlug); s != "" {
		return s
	}
	return strings.TrimSpace(header)
}
