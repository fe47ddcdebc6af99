package database

import (
	"context"
	"testing"

	"github.com/mroshb/quizline/internal/config"
	"github.com/mroshb/quizline/internal/models"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(&config.Config{DBDriver: "mysql"})
	if err == nil {
		t.Error("Connect() expected error for unsupported driver, got nil")
	}
}

func TestSeedQuizzes(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer Close(db)

	ctx := context.Background()
	if err := SeedQuizzes(ctx, db); err != nil {
		t.Fatalf("SeedQuizzes() error = %v", err)
	}

	var first int64
	db.Model(&models.Quiz{}).Count(&first)
	if first == 0 {
		t.Fatal("SeedQuizzes() left the catalog empty")
	}

	// A second run must not duplicate the starter set.
	if err := SeedQuizzes(ctx, db); err != nil {
		t.Fatalf("SeedQuizzes() second run error = %v", err)
	}

	var second int64
	db.Model(&models.Quiz{}).Count(&second)
	if second != first {
		t.Errorf("quiz count after reseed = %d, want %d", second, first)
	}
}
