package backups

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/companion/internal/backup"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/storage"
)

func setupTestStore(t *testing.T, name string) (*cli.Context, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	provider := storage.NewProvider(path)
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { provider.Close() })

	return &cli.Context{Store: storage.New(provider, nil)}, path
}

func TestBackupCreateAndList(t *testing.T) {
	for _, name := range []string{"test.db", "test.json"} {
		t.Run(name, func(t *testing.T) {
			ctx, path := setupTestStore(t, name)

			if err := (&BackupListCmd{}).Run(ctx); err != nil {
				t.Fatalf("list on empty dir failed: %v", err)
			}
			if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
				t.Fatalf("create failed: %v", err)
			}

			backups, err := backup.NewManager(path).ListBackups()
			if err != nil {
				t.Fatalf("ListBackups failed: %v", err)
			}
			if len(backups) != 1 {
				t.Fatalf("expected 1 backup, got %d", len(backups))
			}
			if err := (&BackupListCmd{}).Run(ctx); err != nil {
				t.Errorf("list failed: %v", err)
			}
		})
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, path := setupTestStore(t, "test.json")
	if err := ctx.Store.SaveStats(models.UserStats{XP: 70}); err != nil {
		t.Fatalf("SaveStats failed: %v", err)
	}
	backupPath, err := backup.NewManager(path).CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if err := ctx.Store.SaveStats(models.UserStats{XP: 300}); err != nil {
		t.Fatalf("SaveStats failed: %v", err)
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backupPath), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	restored := storage.NewJSONStore(path)
	if err := restored.Load(); err != nil {
		t.Fatalf("failed to load restored store: %v", err)
	}
	if got := storage.New(restored, nil).Stats().XP; got != 70 {
		t.Errorf("expected restored xp 70, got %d", got)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := setupTestStore(t, "test.db")

	cmd := &BackupRestoreCmd{BackupFile: "companion-nope.db", Yes: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for a missing backup")
	}
}

func TestBackupMemoryStore(t *testing.T) {
	p := storage.NewMemoryStore()
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	ctx := &cli.Context{Store: storage.New(p, nil)}

	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected an error backing up the in-memory store")
	}
}
