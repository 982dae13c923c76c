// Bootstrap an admin account.
//
// Registration through the API only creates staff users under an
// existing practice, so the first practice and its admin have to be
// created out of band. Run once after the initial migration.
//
// Usage: go run scripts/create_admin.go -email admin@example.org -password <pw> -ods A12345
package main

import (
	"dspt_pro_backend/internal/config"
	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/pkg/database"
	"dspt_pro_backend/pkg/logger"
	"errors"
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	name := flag.String("name", "Administrator", "display name for the admin user")
	email := flag.String("email", "", "admin login email")
	password := flag.String("password", "", "admin password, at least 8 characters")
	ods := flag.String("ods", "", "ODS code of the practice to attach the admin to; created if missing")
	practiceName := flag.String("practice-name", "Head Office", "practice name used when the practice is created")
	flag.Parse()

	if *email == "" || len(*password) < 8 || *ods == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var practice model.Practice
	err = db.Where("ods_code = ?", *ods).First(&practice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		practice = model.Practice{Name: *practiceName, ODSCode: *ods}
		if err := db.Create(&practice).Error; err != nil {
			log.Fatalf("Failed to create practice: %v", err)
		}
		log.Printf("Created practice %s (%s)", practice.Name, practice.ODSCode)
	} else if err != nil {
		log.Fatalf("Failed to look up practice: %v", err)
	}

	var existing model.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		log.Fatalf("A user with email %s already exists", *email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := model.User{
		Name:       *name,
		Email:      *email,
		Password:   string(hashed),
		Role:       model.Admin,
		PracticeID: practice.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Admin user %s created for practice %s", user.Email, practice.ODSCode)
}
