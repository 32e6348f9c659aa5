package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupEstatusRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, domain.EstatusRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEstatusRepository(db, zap.NewNop())
	return db, mock, repo
}

func estatusRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"persona_id", "anio", "mes", "estatus", "observaciones"})
}

func estatusAnioCompleto(personaID string, anio int, valor bool) *sqlmock.Rows {
	rows := estatusRows()
	for mes := 1; mes <= 12; mes++ {
		rows.AddRow(personaID, anio, mes, valor, "")
	}
	return rows
}

func TestGetYearMaterializaAnioNuevo(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	// Primera consulta: el año no existe
	mock.ExpectQuery(`SELECT (.+) FROM estatus_mensuales WHERE persona_id = \$1 AND anio = \$2`).
		WithArgs("id-1", 2025).
		WillReturnRows(estatusRows())

	// Inicialización: las 12 filas en false
	mock.ExpectExec(`INSERT INTO estatus_mensuales (.+) ON CONFLICT (.+) DO NOTHING`).
		WithArgs("id-1", 2025, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12).
		WillReturnResult(sqlmock.NewResult(0, 12))

	// Segunda consulta: las filas recién creadas
	mock.ExpectQuery(`SELECT (.+) FROM estatus_mensuales WHERE persona_id = \$1 AND anio = \$2`).
		WithArgs("id-1", 2025).
		WillReturnRows(estatusAnioCompleto("id-1", 2025, false))

	filas, err := repo.GetYear("id-1", 2025)
	require.NoError(t, err)
	require.Len(t, filas, 12)

	for i, fila := range filas {
		assert.Equal(t, i+1, fila.Mes)
		assert.False(t, fila.Estatus)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetYearNoReinicializaAnioExistente(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	// Las 12 filas ya existen: no se espera ningún INSERT
	mock.ExpectQuery(`SELECT (.+) FROM estatus_mensuales WHERE persona_id = \$1 AND anio = \$2`).
		WithArgs("id-1", 2025).
		WillReturnRows(estatusAnioCompleto("id-1", 2025, false))

	filas, err := repo.GetYear("id-1", 2025)
	require.NoError(t, err)
	assert.Len(t, filas, 12)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMonthSanaAusenciaConFalse(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM estatus_mensuales WHERE persona_id = \$1 AND anio = \$2 AND mes = \$3`).
		WithArgs("id-1", 2025, 3).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO estatus_mensuales (.+) ON CONFLICT (.+) DO UPDATE`).
		WithArgs("id-1", 2025, 3, false, "").
		WillReturnRows(estatusRows().AddRow("id-1", 2025, 3, false, ""))

	estatus, err := repo.GetMonth("id-1", 2025, 3)
	require.NoError(t, err)
	assert.False(t, estatus.Estatus)
	assert.Equal(t, 3, estatus.Mes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMonthUpsert(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO estatus_mensuales (.+) ON CONFLICT (.+) DO UPDATE`).
		WithArgs("id-1", 2025, 7, true, "pago en efectivo").
		WillReturnRows(estatusRows().AddRow("id-1", 2025, 7, true, "pago en efectivo"))

	estatus, err := repo.SetMonth("id-1", 2025, 7, true, "pago en efectivo")
	require.NoError(t, err)
	assert.True(t, estatus.Estatus)
	assert.Equal(t, "pago en efectivo", estatus.Observaciones)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleDevuelveNuevoValor(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO estatus_mensuales (.+) DO UPDATE SET estatus = NOT (.+) RETURNING estatus`).
		WithArgs("id-1", 2025, 4).
		WillReturnRows(sqlmock.NewRows([]string{"estatus"}).AddRow(true))

	nuevo, err := repo.Toggle("id-1", 2025, 4)
	require.NoError(t, err)
	assert.True(t, nuevo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleDobleRestauraValorOriginal(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO estatus_mensuales`).
		WithArgs("id-1", 2025, 4).
		WillReturnRows(sqlmock.NewRows([]string{"estatus"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO estatus_mensuales`).
		WithArgs("id-1", 2025, 4).
		WillReturnRows(sqlmock.NewRows([]string{"estatus"}).AddRow(false))

	primero, err := repo.Toggle("id-1", 2025, 4)
	require.NoError(t, err)
	segundo, err := repo.Toggle("id-1", 2025, 4)
	require.NoError(t, err)

	assert.True(t, primero)
	assert.False(t, segundo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllForYearUnaSolaConsulta(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	rows := estatusRows().
		AddRow("id-1", 2025, 1, true, "").
		AddRow("id-1", 2025, 2, false, "").
		AddRow("id-2", 2025, 1, false, "")

	mock.ExpectQuery(`SELECT (.+) FROM estatus_mensuales WHERE anio = \$1`).
		WithArgs(2025).
		WillReturnRows(rows)

	filas, err := repo.GetAllForYear(2025)
	require.NoError(t, err)
	assert.Len(t, filas, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByPersona(t *testing.T) {
	db, mock, repo := setupEstatusRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM estatus_mensuales WHERE persona_id = \$1`).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 24))

	err := repo.DeleteByPersona("id-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
