package topology

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_RoomsForBuilding(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectRoomsQuery)).
		WithArgs("building-a").
		WillReturnRows(sqlmock.NewRows([]string{"room_id"}).
			AddRow("room-1").
			AddRow("room-2").
			AddRow("room-3").
			AddRow("room-4"))

	rooms, err := NewPostgresStore(db).RoomsForBuilding(context.Background(), "building-a")
	require.NoError(t, err)
	require.Equal(t, []string{"room-1", "room-2", "room-3", "room-4"}, rooms)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_QueryError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	errConnection := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta(selectRoomsQuery)).
		WithArgs("building-a").
		WillReturnError(errConnection)

	_, err = NewPostgresStore(db).RoomsForBuilding(context.Background(), "building-a")
	require.ErrorIs(t, err, errConnection)
	require.NoError(t, mock.ExpectationsWereMet())
}
