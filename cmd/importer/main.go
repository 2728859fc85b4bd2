package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"foodgram/internal/config"
	"foodgram/internal/db"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// Importer for the ingredient reference table. Reads a two-column CSV
// (name, measurement unit) and upserts each row; existing name+unit pairs
// are left alone, so reruns are idempotent.
func main() {
	csvPath := flag.String("csv", "ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.Ingredient{}); err != nil {
		logrus.Fatalf("auto-migrate: %v", err)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		logrus.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	repo := repository.NewIngredientRepository(gormDB)
	ctx := context.Background()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	imported, skipped := 0, 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Fatalf("read csv: %v", err)
		}
		if len(row) != 2 {
			logrus.Warnf("skipping malformed row: %v", row)
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		unit := strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			logrus.Warnf("skipping empty row: %v", row)
			skipped++
			continue
		}

		ingredient := &model.Ingredient{Name: name, MeasurementUnit: unit}
		if err := repo.FirstOrCreate(ctx, ingredient); err != nil {
			logrus.Fatalf("import %q: %v", name, err)
		}
		imported++
	}

	logrus.Infof("import finished: %d rows processed, %d skipped", imported, skipped)
}
