package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/studyquiz-backend/internal/data/db"
	"github.com/yungbote/studyquiz-backend/internal/data/repos"
	"github.com/yungbote/studyquiz-backend/internal/data/seed"
	"github.com/yungbote/studyquiz-backend/internal/platform/dbctx"
	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

func main() {
	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "questions.yaml", "question bank to import")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the bank without writing")
	flag.Parse()

	_ = godotenv.Load()
	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	f, err := os.Open(path)
	if err != nil {
		log.Error("open question bank", "error", err)
		os.Exit(1)
	}
	bank, err := seed.ParseBank(f)
	_ = f.Close()
	if err != nil {
		log.Error("invalid question bank", "error", err)
		os.Exit(1)
	}
	if dryRun {
		total := 0
		for _, s := range bank.Subjects {
			total += len(s.Questions)
		}
		fmt.Printf("%d subjects, %d questions\n", len(bank.Subjects), total)
		return
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("init postgres", "error", err)
		os.Exit(1)
	}
	defer pg.Close()
	if err := pg.AutoMigrateAll(); err != nil {
		log.Error("postgres automigrate", "error", err)
		os.Exit(1)
	}

	im := seed.NewImporter(log, repos.NewSubjectRepo(pg.DB(), log), repos.NewQuestionRepo(pg.DB(), log))
	res, err := im.Import(dbctx.New(context.Background()), bank)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("subjects created=%d skipped=%d questions created=%d\n", res.SubjectsCreated, res.SubjectsSkipped, res.QuestionsCreated)
}
