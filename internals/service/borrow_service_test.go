package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"university-library/initializers"
	"university-library/internals/models"
	"university-library/internals/repository"
	logger "university-library/loggers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// newTestDB opens a throwaway sqlite database. busy_timeout makes racing
// write transactions queue instead of failing immediately.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, initializers.SyncDatabase(db))
	return db
}

func newBorrowService(t *testing.T) (*BorrowService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewBorrowService(
		db,
		repository.NewUserRepository(db),
		repository.NewBookRepository(db),
		repository.NewBorrowRepository(db),
	), db
}

func createUser(t *testing.T, db *gorm.DB, status models.UserStatus) *models.User {
	t.Helper()
	user := &models.User{
		FullName:     "Test Student",
		Email:        fmt.Sprintf("student-%d@university.edu", time.Now().UnixNano()),
		UniversityID: time.Now().UnixNano(),
		Password:     "irrelevant-hash",
		Status:       status,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createBook(t *testing.T, db *gorm.DB, total, available int) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:           "The Go Programming Language",
		Author:          "Donovan and Kernighan",
		Genre:           "Programming",
		Rating:          5,
		CoverURL:        "/covers/gopl.png",
		CoverColor:      "#00ADD8",
		Description:     "The definitive Go book",
		TotalCopies:     total,
		AvailableCopies: available,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func bookCopies(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var book models.Book
	require.NoError(t, db.First(&book, "id = ?", id).Error)
	return book.AvailableCopies
}

func TestBorrowSuccess(t *testing.T) {
	svc, db := newBorrowService(t)
	user := createUser(t, db, models.StatusApproved)
	book := createBook(t, db, 3, 2)

	record, err := svc.Borrow(context.Background(), user.ID, book.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, record.UserID)
	assert.Equal(t, book.ID, record.BookID)
	assert.Equal(t, models.StatusBorrowed, record.Status)
	assert.Nil(t, record.ReturnDate)
	assert.WithinDuration(t, record.BorrowDate.Add(LoanPeriod), record.DueDate, time.Second)
	assert.Equal(t, 1, bookCopies(t, db, book.ID))

	var stored models.BorrowRecord
	require.NoError(t, db.First(&stored, "id = ?", record.ID).Error)
	assert.Equal(t, models.StatusBorrowed, stored.Status)
}

func TestBorrowNoCopiesAvailable(t *testing.T) {
	svc, db := newBorrowService(t)
	user := createUser(t, db, models.StatusApproved)
	book := createBook(t, db, 2, 0)

	_, err := svc.Borrow(context.Background(), user.ID, book.ID)
	ne, ok := IsNotEligible(err)
	require.True(t, ok, "expected eligibility rejection, got %v", err)
	assert.Equal(t, "no copies available", ne.Reason)
	assert.Equal(t, 0, bookCopies(t, db, book.ID))
}

func TestBorrowUnapprovedAccount(t *testing.T) {
	svc, db := newBorrowService(t)
	user := createUser(t, db, models.StatusPending)
	book := createBook(t, db, 2, 2)

	_, err := svc.Borrow(context.Background(), user.ID, book.ID)
	ne, ok := IsNotEligible(err)
	require.True(t, ok)
	assert.Equal(t, "account not approved", ne.Reason)
	assert.Equal(t, 2, bookCopies(t, db, book.ID))
}

func TestBorrowUnknownBookAndUser(t *testing.T) {
	svc, db := newBorrowService(t)
	user := createUser(t, db, models.StatusApproved)
	book := createBook(t, db, 1, 1)

	_, err := svc.Borrow(context.Background(), user.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Borrow(context.Background(), "00000000-0000-0000-0000-000000000000", book.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, bookCopies(t, db, book.ID))
	var count int64
	require.NoError(t, db.Model(&models.BorrowRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

// The correctness core: racing borrowers for the last copy. Exactly one may
// win and the count must end at zero, never below.
func TestBorrowLastCopyRace(t *testing.T) {
	svc, db := newBorrowService(t)
	book := createBook(t, db, 1, 1)

	const borrowers = 4
	users := make([]*models.User, borrowers)
	for i := range users {
		users[i] = createUser(t, db, models.StatusApproved)
	}

	var wg sync.WaitGroup
	results := make([]error, borrowers)
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Borrow(context.Background(), users[i].ID, book.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one borrower may take the last copy")
	assert.Equal(t, 0, bookCopies(t, db, book.ID))

	var count int64
	require.NoError(t, db.Model(&models.BorrowRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReturnFlow(t *testing.T) {
	svc, db := newBorrowService(t)
	user := createUser(t, db, models.StatusApproved)
	book := createBook(t, db, 2, 2)

	_, err := svc.Borrow(context.Background(), user.ID, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, bookCopies(t, db, book.ID))

	returned, err := svc.Return(context.Background(), user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, 2, bookCopies(t, db, book.ID))

	// second return has no open record left
	_, err = svc.Return(context.Background(), user.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, bookCopies(t, db, book.ID), "available copies must not exceed total")
}

func TestCopiesStayWithinBounds(t *testing.T) {
	svc, db := newBorrowService(t)
	book := createBook(t, db, 2, 2)
	alice := createUser(t, db, models.StatusApproved)
	bob := createUser(t, db, models.StatusApproved)

	_, err := svc.Borrow(context.Background(), alice.ID, book.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(context.Background(), bob.ID, book.ID)
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), alice.ID, book.ID)
	_, notEligible := IsNotEligible(err)
	assert.True(t, notEligible)
	assert.Equal(t, 0, bookCopies(t, db, book.ID))

	_, err = svc.Return(context.Background(), alice.ID, book.ID)
	require.NoError(t, err)
	_, err = svc.Return(context.Background(), bob.ID, book.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, bookCopies(t, db, book.ID))
}

func TestHistory(t *testing.T) {
	svc, db := newBorrowService(t)
	user := createUser(t, db, models.StatusApproved)
	first := createBook(t, db, 1, 1)
	second := createBook(t, db, 1, 1)

	_, err := svc.Borrow(context.Background(), user.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(context.Background(), user.ID, second.ID)
	require.NoError(t, err)

	records, err := svc.History(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = svc.History(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
