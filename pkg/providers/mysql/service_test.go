package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/vents/pkg/connections"
	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/testutil"
)

func TestLoadFromConnection(t *testing.T) {
	conn := &connections.Connection{
		Name:   "orders",
		Kind:   connections.KindMySQL,
		Schema: map[string]any{"MYSQL_DSN": "app:secret@tcp(mysql.internal:3306)/orders?parseTime=true"},
	}
	cfg := testutil.AppConfig(t, map[string]string{"MYSQL_DSN": "ignored@tcp(localhost)/x"}, conn)

	svc, err := LoadFromCatalog(cfg, "orders")
	require.NoError(t, err)
	assert.Equal(t, connections.KindMySQL, svc.Kind())

	dc, err := svc.DriverConfig()
	require.NoError(t, err)
	assert.Equal(t, "mysql.internal:3306", dc.Addr)
	assert.Equal(t, "orders", dc.DBName)
	assert.Equal(t, "app", dc.User)
	assert.True(t, dc.ParseTime)
}

func TestSession(t *testing.T) {
	cfg := testutil.AppConfig(t, map[string]string{"VENTS_MYSQL_DSN": "app:secret@tcp(127.0.0.1:1)/orders"})
	svc, err := LoadFromConnection(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	db, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.NotNil(t, db)

	err = svc.Ping(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))

	assert.NoError(t, svc.Close())
}

func TestSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", nil},
		{"malformed dsn", map[string]string{KeyDSN: "app:secret@tcp(mysql.internal:3306/orders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := LoadFromConnection(testutil.AppConfig(t, tt.env), nil)
			require.NoError(t, err)

			ctx, cancel := testutil.TestContext(t)
			defer cancel()

			_, err = svc.Session(ctx)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
		})
	}
}
