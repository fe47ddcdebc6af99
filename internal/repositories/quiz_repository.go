package repositories

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/quizline/internal/models"
	"github.com/mroshb/quizline/pkg/errors"
	"gorm.io/gorm"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// ListAll retrieves every quiz ordered by id
func (r *QuizRepository) ListAll(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	result := r.db.WithContext(ctx).Order("id ASC").Find(&quizzes)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list quizzes")
	}

	return quizzes, nil
}

// GetByID retrieves a quiz by ID
func (r *QuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	result := r.db.WithContext(ctx).First(&quiz, id)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "quiz not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get quiz")
	}

	return &quiz, nil
}

// Create inserts a new quiz and fills in its ID
func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := r.db.WithContext(ctx).Create(quiz).Error; err != nil {
		return wrapWriteError(err, "failed to create quiz")
	}
	return nil
}

// Update saves question and answer of an existing quiz
func (r *QuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	result := r.db.WithContext(ctx).Model(quiz).
		Select("question", "answer", "updated_at").
		Updates(quiz)

	if result.Error != nil {
		return wrapWriteError(result.Error, "failed to update quiz")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "quiz not found")
	}

	return nil
}

// Delete removes a quiz by ID
func (r *QuizRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Quiz{}, id)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete quiz")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "quiz not found")
	}

	return nil
}

// Count returns the number of quizzes in the catalog
func (r *QuizRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Quiz{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count quizzes")
	}
	return count, nil
}

// validation failures from BeforeSave come back through gorm unchanged
func wrapWriteError(err error, message string) error {
	if errors.HasCode(err, errors.ErrCodeValidation) {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeInternalError, message)
}
