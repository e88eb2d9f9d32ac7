package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"projects", "work", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte(cfg.Organization.TempPassword), bcrypt.DefaultCost)

		adminID := seedUser(db, "admin@"+cfg.Organization.EmailDomain, "관리자", string(hash), 3, "경영기획실", "기획팀")
		userID := seedUser(db, "hong@"+cfg.Organization.EmailDomain, "홍길동", string(hash), 1, "식품소재연구센터", "소재분석팀")

		if userID != "" {
			seedProject(db, userID, "전북 농산물 기능성 소재 발굴", "도내 농산물 유래 기능성 소재 탐색 및 평가", "홍길동, 김철수")
			seedWork(db, userID, "상반기 시험분석 업무 계획", "정기 시험분석 및 품질관리 업무")
		}
		if adminID != "" {
			fmt.Println("Seeded admin user: admin@" + cfg.Organization.EmailDomain)
		}
	},
}

func seedUser(db *gorm.DB, email, name, hash string, level int, center, team string) string {
	var id string
	row := db.Raw("SELECT id FROM users WHERE email = ?", email).Row()
	if err := row.Scan(&id); err == nil {
		fmt.Println("user already exists:", email)
		return id
	}

	id = uuid.NewString()
	if err := db.Exec(
		"INSERT INTO users (id, email, name, password_hash, access_level, center, team, first_login, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, true, now(), now())",
		id, email, name, hash, level, center, team,
	).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
	return id
}

func seedProject(db *gorm.DB, applicantID, name, description, members string) {
	if err := db.Exec(
		"INSERT INTO projects (id, name, description, members, status, applicant_id, created_at, updated_at) VALUES (?, ?, ?, ?, '대기중', ?, now(), now())",
		uuid.NewString(), name, description, members, applicantID,
	).Error; err != nil {
		log.Fatalf("failed to insert project: %v", err)
	}
	fmt.Println("Seeded project:", name)
}

func seedWork(db *gorm.DB, applicantID, name, description string) {
	if err := db.Exec(
		"INSERT INTO work (id, name, description, status, applicant_id, created_at, updated_at) VALUES (?, ?, ?, '대기중', ?, now(), now())",
		uuid.NewString(), name, description, applicantID,
	).Error; err != nil {
		log.Fatalf("failed to insert work item: %v", err)
	}
	fmt.Println("Seeded work item:", name)
}
