package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/internal/model"
)

type stubProductRepo struct {
	products map[uint]*model.Product
}

func (s *stubProductRepo) Create(ctx context.Context, product *model.Product) error { return nil }
func (s *stubProductRepo) Update(ctx context.Context, product *model.Product) error { return nil }
func (s *stubProductRepo) Delete(ctx context.Context, id uint) error                { return nil }
func (s *stubProductRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}
func (s *stubProductRepo) FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}
func (s *stubProductRepo) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	return nil, 0, nil
}

type stubCommentRepo struct {
	comments map[uint]*model.Comment
	nextID   uint
	deleted  []uint
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[uint]*model.Comment), nextID: 1}
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = s.nextID
	s.nextID++
	s.comments[comment.ID] = comment
	return nil
}
func (s *stubCommentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return c, nil
}
func (s *stubCommentRepo) ListByProduct(ctx context.Context, productID uint, limit int) ([]model.Comment, int64, error) {
	var out []model.Comment
	for _, c := range s.comments {
		if c.ProductID == productID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}
func (s *stubCommentRepo) Delete(ctx context.Context, id uint) error {
	delete(s.comments, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func newCommentFixture() (CommentService, *stubCommentRepo) {
	commentRepo := newStubCommentRepo()
	productRepo := &stubProductRepo{products: map[uint]*model.Product{
		1: {ID: 1, Name: "Cuaderno"},
	}}
	return NewCommentService(commentRepo, productRepo), commentRepo
}

func TestCommentCreate(t *testing.T) {
	svc, _ := newCommentFixture()

	comment, err := svc.Create(context.Background(), 1, "ana", "  Muy buen producto  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.Content != "Muy buen producto" {
		t.Errorf("expected trimmed content, got %q", comment.Content)
	}
	if comment.UserName != "ana" {
		t.Errorf("unexpected user name %q", comment.UserName)
	}
}

func TestCommentCreateAnonymousFallback(t *testing.T) {
	svc, _ := newCommentFixture()

	comment, err := svc.Create(context.Background(), 1, "", "Bien")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.UserName != "Usuario" {
		t.Errorf("expected anonymous fallback name, got %q", comment.UserName)
	}
}

func TestCommentCreateValidation(t *testing.T) {
	svc, _ := newCommentFixture()

	tests := []struct {
		name      string
		productID uint
		content   string
	}{
		{"empty content", 1, "   "},
		{"too long", 1, strings.Repeat("a", 501)},
		{"missing product", 99, "Bien"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.productID, "ana", tt.content); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCommentDeleteChecksProduct(t *testing.T) {
	svc, repo := newCommentFixture()

	comment, err := svc.Create(context.Background(), 1, "ana", "Bien")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Deleting through the wrong product must fail
	if err := svc.Delete(context.Background(), 2, comment.ID); err == nil {
		t.Error("expected error when product does not match")
	}
	if len(repo.deleted) != 0 {
		t.Errorf("comment must not be deleted, got %v", repo.deleted)
	}

	if err := svc.Delete(context.Background(), 1, comment.ID); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
}
