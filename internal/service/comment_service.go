package service

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	commentMaxLen    = 500
	commentPageLimit = 50
	anonymousName    = "Usuario"
)

type CommentListResponse struct {
	Comments []model.Comment `json:"comments"`
	Count    int64           `json:"count"`
}

type CommentService interface {
	ListByProduct(ctx context.Context, productID uint) (*CommentListResponse, error)
	Create(ctx context.Context, productID uint, userName, content string) (*model.Comment, error)
	Delete(ctx context.Context, productID, commentID uint) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
}

func NewCommentService(commentRepo repository.CommentRepository, productRepo repository.ProductRepository) CommentService {
	return &commentService{commentRepo: commentRepo, productRepo: productRepo}
}

func (s *commentService) ListByProduct(ctx context.Context, productID uint) (*CommentListResponse, error) {
	comments, total, err := s.commentRepo.ListByProduct(ctx, productID, commentPageLimit)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return &CommentListResponse{Comments: comments, Count: total}, nil
}

func (s *commentService) Create(ctx context.Context, productID uint, userName, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if len(content) < 1 || len(content) > commentMaxLen {
		return nil, errors.New("content must be 1..500 characters")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, errors.New("product not found")
	}

	if userName == "" {
		userName = anonymousName
	}

	comment := &model.Comment{
		ProductID: productID,
		UserName:  userName,
		Content:   content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, productID, commentID uint) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil || comment.ProductID != productID {
		return errors.New("comment not found")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
