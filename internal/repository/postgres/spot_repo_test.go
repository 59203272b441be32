package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestSpotRepo_CreateGuess_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSpotRepo(db)
	ctx := context.Background()

	g := &model.Guess{
		ID:     uuid.Must(uuid.NewV4()),
		SpotID: uuid.Must(uuid.NewV4()),
		UserID: uuid.Must(uuid.NewV4()),
		Make:   "Toyota",
		Model:  "Supra",
	}

	mock.ExpectExec(`INSERT INTO guesses \(id, spot_id, user_id, make, model, year\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`).
		WithArgs(g.ID, g.SpotID, g.UserID, g.Make, g.Model, g.Year).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.CreateGuess(ctx, g))

	mock.ExpectExec(`INSERT INTO guesses \(id, spot_id, user_id, make, model, year\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`).
		WithArgs(g.ID, g.SpotID, g.UserID, g.Make, g.Model, g.Year).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.CreateGuess(ctx, g), errs.ErrDuplicate)
}

func TestSpotRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSpotRepo(db)
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT .+ FROM spots WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err := r.GetByID(context.Background(), id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSpotRepo_Reveal_ScoresGuessesInOneTx(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSpotRepo(db)
	ctx := context.Background()

	spotID := uuid.Must(uuid.NewV4())
	g1 := uuid.Must(uuid.NewV4())
	g2 := uuid.Must(uuid.NewV4())
	carMake, carModel := "Toyota", "Supra"
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE spots SET revealed_at=now\(\), make=\$2, model=\$3, is_identified=true WHERE id=\$1 AND is_challenge AND revealed_at IS NULL`).
		WithArgs(spotID, &carMake, &carModel).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`SELECT id, spot_id, user_id, make, model, year, is_correct, created_at FROM guesses WHERE spot_id=\$1 FOR UPDATE`).
		WithArgs(spotID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "spot_id", "user_id", "make", "model", "year", "is_correct", "created_at"}).
			AddRow(g1, spotID, uuid.Must(uuid.NewV4()), "toyota", "supra", nil, nil, now).
			AddRow(g2, spotID, uuid.Must(uuid.NewV4()), "Nissan", "GT-R", nil, nil, now))
	mock.ExpectExec(`UPDATE guesses SET is_correct=\$2 WHERE id=\$1`).
		WithArgs(g1, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE guesses SET is_correct=\$2 WHERE id=\$1`).
		WithArgs(g2, false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	scored, err := r.Reveal(ctx, spotID, &carMake, &carModel, func(g model.Guess) bool {
		return g.Make == "toyota"
	})
	require.NoError(t, err)
	require.Equal(t, 2, scored)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepo_Reveal_AlreadyRevealed(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSpotRepo(db)

	spotID := uuid.Must(uuid.NewV4())
	carMake, carModel := "Toyota", "Supra"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE spots SET revealed_at=now\(\), make=\$2, model=\$3, is_identified=true WHERE id=\$1 AND is_challenge AND revealed_at IS NULL`).
		WithArgs(spotID, &carMake, &carModel).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := r.Reveal(context.Background(), spotID, &carMake, &carModel, func(model.Guess) bool { return false })
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}
