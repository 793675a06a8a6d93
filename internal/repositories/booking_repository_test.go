package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"

	"carpool/internal/domain"
)

func TestBookReservesSeatInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("booking-1", "trip-1", "passenger-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := BookingRepository{DB: db}
	b, err := repo.Book(context.Background(), "booking-1", "trip-1", "passenger-1")
	if err != nil {
		t.Fatalf("book error: %v", err)
	}
	if b.ID != "booking-1" || b.TripID != "trip-1" || b.PassengerID != "passenger-1" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookFullTripRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	// seats exhausted: the guarded decrement touches no row
	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := BookingRepository{DB: db}
	_, err = repo.Book(context.Background(), "booking-1", "trip-1", "passenger-1")
	if domain.EligibilityCode(err) != domain.CodeNoSeats {
		t.Fatalf("expected no_seats, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookDuplicateRollsBackDecrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips").
		WithArgs("trip-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&driver.MySQLError{Number: mysqlDuplicateEntry, Message: "duplicate entry"})
	mock.ExpectRollback()

	repo := BookingRepository{DB: db}
	_, err = repo.Book(context.Background(), "booking-1", "trip-1", "passenger-1")
	if domain.EligibilityCode(err) != domain.CodeAlreadyBooked {
		t.Fatalf("expected already_booked, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("trip-1", "passenger-1").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	repo := BookingRepository{DB: db}
	ok, err := repo.Exists(context.Background(), "trip-1", "passenger-1")
	if err != nil {
		t.Fatalf("exists error: %v", err)
	}
	if !ok {
		t.Fatalf("expected existing booking to be reported")
	}
}
