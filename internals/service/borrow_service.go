package service

import (
	"context"
	"errors"
	"time"

	"university-library/internals/models"
	"university-library/internals/repository"
	logger "university-library/loggers"

	"gorm.io/gorm"
)

// LoanPeriod is how long a borrowed copy may be kept.
const LoanPeriod = 14 * 24 * time.Hour

// BorrowService owns the borrow and return transactions. The conditional
// update on books.available_copies is the only write path for that column,
// so the count can never go negative no matter how many requests race.
type BorrowService struct {
	db      *gorm.DB
	users   repository.UserRepository
	books   repository.BookRepository
	borrows repository.BorrowRepository
}

func NewBorrowService(db *gorm.DB, users repository.UserRepository, books repository.BookRepository, borrows repository.BorrowRepository) *BorrowService {
	return &BorrowService{db: db, users: users, books: books, borrows: borrows}
}

// Borrow checks eligibility and then, in a single transaction, decrements
// the available copies and inserts the BORROWED record. Two borrowers racing
// for the last copy resolve at the conditional update: the loser affects
// zero rows and gets ErrConcurrencyConflict.
func (s *BorrowService) Borrow(ctx context.Context, userID, bookID string) (*models.BorrowRecord, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, translateLookupErr(err)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translateLookupErr(err)
	}

	if eligibility := EvaluateEligibility(user, book); !eligibility.IsEligible {
		return nil, &NotEligibleError{Reason: eligibility.Reason}
	}

	now := time.Now()
	record := &models.BorrowRecord{
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: now,
		DueDate:    now.Add(LoanPeriod),
		Status:     models.StatusBorrowed,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies > 0", book.ID).
			UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// another borrower took the last copy between the eligibility
			// check and this update
			return ErrConcurrencyConflict
		}
		return tx.Create(record).Error
	})
	if err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			return nil, ErrConcurrencyConflict
		}
		logger.Logger.Error("borrow transaction failed: ", err)
		return nil, translateStoreErr(ctx, err)
	}
	return record, nil
}

// Return closes the open borrow record for userID/bookID and gives the copy
// back to the pool, in one transaction. The status flip is conditional on
// BORROWED so a record can only be returned once; the increment is capped by
// total_copies so bulk inventory edits cannot push the count out of range.
func (s *BorrowService) Return(ctx context.Context, userID, bookID string) (*models.BorrowRecord, error) {
	record, err := s.borrows.FindOpenByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, translateLookupErr(err)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.BorrowRecord{}).
			Where("id = ? AND status = ?", record.ID, models.StatusBorrowed).
			Updates(map[string]interface{}{
				"status":      models.StatusReturned,
				"return_date": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}
		return tx.Model(&models.Book{}).
			Where("id = ? AND available_copies < total_copies", bookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error
	})
	if err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			return nil, ErrConcurrencyConflict
		}
		logger.Logger.Error("return transaction failed: ", err)
		return nil, translateStoreErr(ctx, err)
	}

	record.Status = models.StatusReturned
	record.ReturnDate = &now
	return record, nil
}

// History lists all borrow records of a user, newest first.
func (s *BorrowService) History(ctx context.Context, userID string) ([]models.BorrowRecord, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, translateLookupErr(err)
	}
	return s.borrows.FindByUser(ctx, userID)
}

func translateLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func translateStoreErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTransient
	}
	return err
}
