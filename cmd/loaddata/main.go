// loaddata 把 HRWIKI.*.json 语料导入本地 sqlite 集合
//
// 用法：
//
//	loaddata -dir ./data [-db ~/.hrwiki/hrwiki.db]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hrwiki/backend/internal/infrastructure/config"
	applog "github.com/hrwiki/backend/internal/infrastructure/log"
	"github.com/hrwiki/backend/internal/infrastructure/storage"
)

func main() {
	dir := flag.String("dir", ".", "directory containing HRWIKI.*.json files")
	dbPath := flag.String("db", "", "sqlite database path (default ~/.hrwiki/hrwiki.db)")
	flag.Parse()

	applog.Init(nil)

	db, err := storage.OpenDB(&config.DatabaseConfig{Path: *dbPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	importer := storage.NewImporter(
		storage.NewEmployeeRepository(db),
		storage.NewDocumentRepository(db),
	)

	stats, err := importer.ImportDir(context.Background(), *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Import completed:")
	fmt.Printf("  files processed:     %d\n", stats.Files)
	fmt.Printf("  employee records:    %d\n", stats.Employees)
	fmt.Printf("  documents:           %d\n", stats.Documents)
	fmt.Printf("  suggested questions: %d\n", stats.Questions)
	fmt.Printf("  skipped records:     %d\n", len(stats.Skipped))
}
