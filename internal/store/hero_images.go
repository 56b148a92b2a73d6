package store

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

func (s *Store) ListHeroImages(ctx context.Context) ([]models.HeroImage, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, image_url FROM hero_images ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.HeroImage{}
	for rows.Next() {
		var img models.HeroImage
		if err := rows.Scan(&img.ID, &img.ImageURL); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *Store) CreateHeroImage(ctx context.Context, imageURL string) (*models.HeroImage, error) {
	result, err := s.DB.ExecContext(ctx, "INSERT INTO hero_images (image_url) VALUES (?)", imageURL)
	if err != nil {
		return nil, fmt.Errorf("insert hero image: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.HeroImage{ID: id, ImageURL: imageURL}, nil
}

func (s *Store) UpdateHeroImage(ctx context.Context, id int64, imageURL string) (*models.HeroImage, error) {
	result, err := s.DB.ExecContext(ctx, "UPDATE hero_images SET image_url = ? WHERE id = ?", imageURL, id)
	if err != nil {
		return nil, fmt.Errorf("update hero image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return &models.HeroImage{ID: id, ImageURL: imageURL}, nil
}
