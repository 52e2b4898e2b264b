package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smirnovds/townsquare/internal/model"
)

func TestAllows_ContentTables(t *testing.T) {
	for _, table := range []Table{TableNews, TableEvents} {
		// reads: any authenticated role
		require.True(t, Allows(table, OpSelect, model.RoleUser))
		require.True(t, Allows(table, OpSelect, model.RoleAdmin))

		// writes: admin only
		for _, op := range []Operation{OpInsert, OpUpdate, OpDelete} {
			require.False(t, Allows(table, op, model.RoleUser), "%s %s as user", table, op)
			require.True(t, Allows(table, op, model.RoleAdmin), "%s %s as admin", table, op)
		}
	}
}

func TestAllows_Identities(t *testing.T) {
	require.True(t, Allows(TableIdentities, OpSelect, model.RoleUser))
	require.True(t, Allows(TableIdentities, OpUpdate, model.RoleUser))
	require.False(t, Allows(TableIdentities, OpInsert, model.RoleUser))
	require.False(t, Allows(TableIdentities, OpDelete, model.RoleAdmin))
}

func TestAllows_Media(t *testing.T) {
	// any authenticated identity may read and add objects
	require.True(t, Allows(TableMedia, OpSelect, model.RoleUser))
	require.True(t, Allows(TableMedia, OpInsert, model.RoleUser))

	// replacing or removing stored objects stays with admins
	for _, op := range []Operation{OpUpdate, OpDelete} {
		require.False(t, Allows(TableMedia, op, model.RoleUser), "media %s as user", op)
		require.True(t, Allows(TableMedia, op, model.RoleAdmin), "media %s as admin", op)
	}
}

func TestAllows_UnknownTable(t *testing.T) {
	require.False(t, Allows(Table("secrets"), OpSelect, model.RoleAdmin))
}
