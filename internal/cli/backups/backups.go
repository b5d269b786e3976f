package backups

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/cleanstreak/internal/backup"
	"github.com/julianstephens/cleanstreak/internal/cli"
)

var errNotSQLite = errors.New("backups are only available for the local SQLite database")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup of the database now."`
	List    BackupListCmd    `cmd:"" help:"List backups, newest first."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
	Verify  BackupVerifyCmd  `cmd:"" help:"Check that a backup file is a usable database."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if !ctx.IsSQLite() {
		return nil, errNotSQLite
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

// resolve accepts "latest", a file name inside the backup directory, or a path
func resolve(mgr *backup.Manager, ref string) (string, error) {
	if ref == "latest" {
		list, err := mgr.List()
		if err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "", errors.New("no backups found")
		}
		return list[0].Path, nil
	}
	if !strings.ContainsRune(ref, filepath.Separator) {
		return filepath.Join(mgr.Dir(), ref), nil
	}
	return ref, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%s Backup created: %s\n", cli.SuccessStyle.Render("✓"), path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	list, err := mgr.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Printf("No backups in %s\n", mgr.Dir())
		return nil
	}
	for _, b := range list {
		fmt.Printf("%s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			cli.MutedStyle.Render(fmt.Sprintf("%8.1f KB", float64(b.Size)/1024)),
			filepath.Base(b.Path))
	}
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" help:"Backup file name, path, or 'latest'."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := resolve(mgr, c.Backup)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Replace the current database with %s?", filepath.Base(path)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, restoreErr := mgr.Restore(context.Background(), path)
	// Reopen either way so the context stays usable
	if err := ctx.Open(); err != nil {
		return errors.Join(restoreErr, err)
	}
	if restoreErr != nil {
		return restoreErr
	}

	fmt.Printf("%s Database restored from %s\n", cli.SuccessStyle.Render("✓"), path)
	if previous != "" {
		fmt.Println(cli.MutedStyle.Render("Previous database saved as " + previous))
	}
	return nil
}

type BackupVerifyCmd struct {
	Backup string `arg:"" help:"Backup file name, path, or 'latest'."`
}

func (c *BackupVerifyCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := resolve(mgr, c.Backup)
	if err != nil {
		return err
	}
	if err := backup.Verify(context.Background(), path); err != nil {
		return fmt.Errorf("%s is not a valid backup: %w", filepath.Base(path), err)
	}
	fmt.Printf("%s %s is a valid backup\n", cli.SuccessStyle.Render("✓"), filepath.Base(path))
	return nil
}
