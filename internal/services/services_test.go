package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mongoarchitect-backend/internal/data/repos"
	"github.com/yungbote/mongoarchitect-backend/internal/data/repos/testutil"
	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine"
	"github.com/yungbote/mongoarchitect-backend/internal/pkg/dbctx"
)

const schoolText = "A school with students, teachers and classes. Students enroll in classes."

func newSchemaService(t *testing.T) (SchemaService, dbctx.Context) {
	t.Helper()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	engine := schemaengine.New(nil, log, nil)
	svc := NewSchemaService(log, engine, repos.NewSchemaHistoryRepo(tx, log))
	return svc, dbctx.Context{Ctx: context.Background(), Tx: tx}
}

func newOwner() string { return "owner-" + uuid.NewString() }
