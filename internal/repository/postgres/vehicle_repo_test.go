package postgres

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/model"
)

func TestVehicleRepo_Update_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVehicleRepo(db)
	id := uuid.Must(uuid.NewV4())

	v := &model.Vehicle{ID: id, Name: "x"}
	mock.ExpectExec(`UPDATE vehicles SET name=\$2, generation_id=\$3, horsepower=\$4, torque=\$5, updated_at=now\(\) WHERE id=\$1`).
		WithArgs(v.ID, v.Name, v.GenerationID, v.Horsepower, v.Torque).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.ErrorIs(t, r.Update(context.Background(), v), errs.ErrNotFound)
}

func TestVehicleRepo_Stats(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVehicleRepo(db)

	linked := uuid.Must(uuid.NewV4())
	bare := uuid.Must(uuid.NewV4())
	makeID := uuid.Must(uuid.NewV4())
	modelID := uuid.Must(uuid.NewV4())
	hp := 300
	country := "DE"

	mock.ExpectQuery(`SELECT v.id, v.horsepower, v.torque, COALESCE\(h.total, 0\), m.make_id, g.model_id, u.country FROM vehicles v`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "horsepower", "torque", "coalesce", "make_id", "model_id", "country"}).
			AddRow(linked, &hp, nil, int64(50_000), uuid.NullUUID{UUID: makeID, Valid: true}, uuid.NullUUID{UUID: modelID, Valid: true}, &country).
			AddRow(bare, nil, nil, int64(0), uuid.NullUUID{}, uuid.NullUUID{}, nil))

	stats, err := r.Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	require.Equal(t, linked, stats[0].VehicleID)
	require.NotNil(t, stats[0].MakeID)
	require.Equal(t, makeID, *stats[0].MakeID)
	require.NotNil(t, stats[0].ModelID)
	require.Equal(t, int64(50_000), stats[0].InvestCents)

	require.Equal(t, bare, stats[1].VehicleID)
	require.Nil(t, stats[1].MakeID)
	require.Nil(t, stats[1].ModelID)
	require.Nil(t, stats[1].OwnerCountry)
}
