package service

import (
	"context"
	"strings"

	"clinicapi/internal/mailer"
	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// CompanyService defines the use cases for companies.
type CompanyService interface {
	Create(ctx context.Context, c model.Company) (*model.Company, error)
	Get(ctx context.Context, id int64) (*model.Company, error)
	List(ctx context.Context, search string, limit, offset int) (*ListResult[model.Company], error)
	Update(ctx context.Context, id int64, c model.Company) (*model.Company, error)
	// Delete removes the company with all of its patients and their records.
	Delete(ctx context.Context, id int64) error
}

type companyService struct {
	repo repository.CompanyRepository
}

// NewCompanyService constructs a new CompanyService.
func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

func validateCompany(c *model.Company) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return ErrNameRequired
	}
	if len(mailer.ParseRecipients(c.Email)) == 0 {
		return ErrEmailRequired
	}
	return nil
}

func (s *companyService) Create(ctx context.Context, c model.Company) (*model.Company, error) {
	if err := validateCompany(&c); err != nil {
		return nil, err
	}
	c.ID = 0
	return s.repo.Create(ctx, &c)
}

func (s *companyService) Get(ctx context.Context, id int64) (*model.Company, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "company")
	}
	return c, nil
}

func (s *companyService) List(ctx context.Context, search string, limit, offset int) (*ListResult[model.Company], error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.repo.List(ctx, strings.TrimSpace(search), repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult[model.Company]{Items: res.Items, Total: res.Total}, nil
}

func (s *companyService) Update(ctx context.Context, id int64, c model.Company) (*model.Company, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	if err := validateCompany(&c); err != nil {
		return nil, err
	}
	c.ID = id
	out, err := s.repo.Update(ctx, &c)
	if err != nil {
		return nil, notFound(err, "company")
	}
	return out, nil
}

func (s *companyService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	return notFound(s.repo.Delete(ctx, id), "company")
}
