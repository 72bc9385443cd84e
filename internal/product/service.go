package product

import (
	"context"
	"io"

	"github.com/wichananm65/craft-catalog/internal/catalog"
	"go.uber.org/zap"
)

// ImageStore persists uploaded images and hands back their public path.
type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(publicPath string) error
}

// Image is an uploaded file that has not been stored yet.
type Image struct {
	Filename string
	Body     io.Reader
}

type Service struct {
	repo   Repository
	images ImageStore
	log    *zap.Logger
}

func NewService(repo Repository, images ImageStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, images: images, log: log}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// ListCatalog serves the public storefront.
func (s *Service) ListCatalog(ctx context.Context) ([]catalog.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.ToCatalog())
	}
	return out, nil
}

// Create validates in, stores img (required) and inserts the product.
func (s *Service) Create(ctx context.Context, in Input, img *Image) (Product, error) {
	p, err := in.Validate()
	if err != nil {
		return Product{}, err
	}
	if img == nil {
		return Product{}, ErrImageRequired
	}
	path, err := s.images.Save(img.Filename, img.Body)
	if err != nil {
		return Product{}, err
	}
	p.Image = path

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.discard(path)
		return Product{}, err
	}
	s.log.Info("product created", zap.Int64("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Update replaces the fields of product id. img may be nil to keep the
// current image.
func (s *Service) Update(ctx context.Context, id int64, in Input, img *Image) (Product, error) {
	p, err := in.Validate()
	if err != nil {
		return Product{}, err
	}
	if img != nil {
		path, err := s.images.Save(img.Filename, img.Body)
		if err != nil {
			return Product{}, err
		}
		p.Image = path
	}

	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		if p.Image != "" {
			s.discard(p.Image)
		}
		return Product{}, err
	}
	s.log.Info("product updated", zap.Int64("id", id), zap.Bool("image_replaced", img != nil))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) discard(path string) {
	if err := s.images.Remove(path); err != nil {
		s.log.Warn("could not remove orphaned image", zap.String("path", path), zap.Error(err))
	}
}
