package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/sellerfolio/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateLoadedFilesTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS loaded_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_name TEXT NOT NULL UNIQUE,
		source_type TEXT NOT NULL,
		file_size INTEGER NOT NULL DEFAULT 0,
		row_count INTEGER NOT NULL DEFAULT 0,
		import_id TEXT,
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		rows TEXT NOT NULL
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

func migrateLoadedFilesTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='loaded_files'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'loaded_files' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'loaded_files' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'loaded_files' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'loaded_files' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(loaded_files)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'loaded_files'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'loaded_files': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'loaded_files'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'loaded_files': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'loaded_files'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'loaded_files': %v", err)
		}
		return
	}

	if _, ok := columnExists["import_id"]; !ok {
		_, err := DB.Exec("ALTER TABLE loaded_files ADD COLUMN import_id TEXT")
		if err != nil {
			logger.L.Error("Error adding 'import_id' column to 'loaded_files' table", "error", err)
		} else {
			logger.L.Info("Added 'import_id' column to 'loaded_files' table")
		}
	}
	if _, ok := columnExists["row_count"]; !ok {
		_, err := DB.Exec("ALTER TABLE loaded_files ADD COLUMN row_count INTEGER NOT NULL DEFAULT 0")
		if err != nil {
			logger.L.Error("Error adding 'row_count' column to 'loaded_files' table", "error", err)
		} else {
			logger.L.Info("Added 'row_count' column to 'loaded_files' table")
		}
	}
}
