package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/JKhoa/TieuLuanMTK/internal/config"
	"github.com/JKhoa/TieuLuanMTK/internal/database"
	"github.com/JKhoa/TieuLuanMTK/internal/logger"
	"github.com/JKhoa/TieuLuanMTK/internal/model"
	"github.com/JKhoa/TieuLuanMTK/internal/repository"
	"github.com/JKhoa/TieuLuanMTK/internal/service"
)

var (
	familyNames = []string{"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh", "Phan", "Vũ", "Võ", "Đặng", "Bùi", "Đỗ"}
	middleNames = []string{"Văn", "Thị", "Minh", "Thu", "Hoàng", "Ngọc", "Quang", "Thanh"}
	givenNames  = []string{
		"An", "Bình", "Cường", "Dung", "Em", "Giang", "Hải", "Hương", "Khoa", "Lan",
		"Long", "Mai", "Nam", "Ngân", "Phúc", "Quân", "Sơn", "Tâm", "Uyên", "Vy",
	}
)

func main() {
	count := flag.Int("n", 20, "number of students to create")
	classLabel := flag.String("class", "CTK49", "class label for the generated students")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if _, err := db.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	studentService := service.NewStudentService(repository.NewStudentRepository(db), log)

	log.Info().Int("count", *count).Str("class", *classLabel).Msg("Seeding students")

	successCount := 0
	for i := 0; i < *count; i++ {
		req := model.StudentRequest{
			Name:       randomName(),
			ClassLabel: *classLabel,
			// Scores land on 0.05 steps between 2.00 and 4.00.
			Score: json.RawMessage(fmt.Sprintf("%.2f", 2+float64(rand.IntN(41))*0.05)),
		}

		student, err := studentService.Create(ctx, req)
		if err != nil {
			log.Error().Err(err).Str("name", req.Name).Msg("Failed to create student")
			continue
		}
		successCount++
		log.Debug().Int64("id", student.ID).Str("name", student.Name).Msg("Created student")
		if successCount%10 == 0 {
			log.Info().Int("created", successCount).Msg("Progress")
		}
	}

	log.Info().Int("created", successCount).Int("requested", *count).Msg("Seed completed")
}

func randomName() string {
	return familyNames[rand.IntN(len(familyNames))] + " " +
		middleNames[rand.IntN(len(middleNames))] + " " +
		givenNames[rand.IntN(len(givenNames))]
}
