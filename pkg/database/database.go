package database

import (
	"dspt_pro_backend/internal/config"
	"dspt_pro_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.Practice{},
		&model.User{},
		&model.Section{},
		&model.Question{},
		&model.Assessment{},
		&model.Response{},
		&model.SectionScore{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedTaxonomy(db); err != nil {
		return nil, err
	}

	return db, nil
}

type seedSection struct {
	number      int
	title       string
	description string
	questions   []seedQuestion
}

type seedQuestion struct {
	code     string
	text     string
	guidance string
}

// The ten National Data Guardian data security standards. Inserted
// keyed by stable number/code; rows that already exist are left alone
// so admin edits to titles and guidance survive restarts.
var ndgStandards = []seedSection{
	{1, "Personal Confidential Data", "All staff ensure that personal confidential data is handled, stored and transmitted securely.", []seedQuestion{
		{"1.1.1", "Does your organisation have an up to date list of the ways in which it holds and shares different types of personal and sensitive information?", "An information asset register covering all systems and paper records satisfies this."},
		{"1.2.2", "Are all records with personal data held in a secure location with access restricted to those who need it?", "Consider both electronic access controls and physical storage of paper records."},
		{"1.3.1", "Is a record kept of all data flows containing personal confidential data into and out of the organisation?", ""},
	}},
	{2, "Staff Responsibilities", "All staff understand their responsibilities under the National Data Guardian's data security standards.", []seedQuestion{
		{"2.1.1", "Do all employment contracts contain data security requirements?", ""},
		{"2.2.1", "Are staff aware of who to report data security concerns to within the organisation?", "Name a data security lead and make the reporting route part of induction."},
	}},
	{3, "Training", "All staff complete appropriate annual data security training.", []seedQuestion{
		{"3.1.1", "Have at least 95% of all staff completed their annual data security awareness training?", ""},
		{"3.2.1", "Have the roles that require specialist data security training been identified and trained?", ""},
	}},
	{4, "Managing Data Access", "Personal confidential data is only accessible to staff who need it for their current role.", []seedQuestion{
		{"4.1.1", "Is access to personal confidential data on all systems attributable to individual users?", "Shared logins defeat attribution; each member of staff needs their own account."},
		{"4.2.2", "Are unnecessary user accounts removed or disabled when staff leave or change role?", ""},
		{"4.3.1", "Are logs of access to personal confidential data kept and reviewed?", ""},
	}},
	{5, "Process Reviews", "Processes are reviewed at least annually to identify and improve those that have caused breaches or near misses.", []seedQuestion{
		{"5.1.1", "Has a review been carried out of processes that caused breaches or near misses in the last year?", ""},
	}},
	{6, "Responding to Incidents", "Cyber attacks are identified and resisted, and security advice is responded to.", []seedQuestion{
		{"6.1.1", "Is anti-virus or anti-malware software installed and kept up to date on all devices?", ""},
		{"6.2.1", "Are all data security incidents recorded and, where necessary, reported through the toolkit?", "Near misses belong in the incident log too."},
		{"6.3.1", "Does the organisation act on alerts and advice from its care community or national cyber security services?", ""},
	}},
	{7, "Continuity Planning", "A continuity plan is in place to respond to threats to data security.", []seedQuestion{
		{"7.1.1", "Does the organisation have a business continuity plan that covers data and cyber security?", ""},
		{"7.2.1", "Has the continuity plan been tested in the last twelve months?", ""},
	}},
	{8, "Unsupported Systems", "No unsupported operating systems, software or internet browsers are used.", []seedQuestion{
		{"8.1.1", "Is all software on all devices still supported by its supplier?", "Unsupported software that cannot yet be removed needs documented mitigations."},
		{"8.2.1", "Are security updates applied within 14 days of release for all high risk vulnerabilities?", ""},
	}},
	{9, "IT Protection", "A strategy is in place for protecting IT systems from cyber threats.", []seedQuestion{
		{"9.1.1", "Are all networking components such as firewalls and routers configured securely with default passwords changed?", ""},
		{"9.2.1", "Is multi-factor authentication enabled for remote access to systems holding personal data?", ""},
	}},
	{10, "Accountable Suppliers", "IT suppliers are held accountable via contracts for protecting personal confidential data.", []seedQuestion{
		{"10.1.1", "Do contracts with all IT suppliers that handle personal data include data security obligations?", ""},
		{"10.2.1", "Has the organisation checked that its system suppliers have completed their own toolkit assessment?", ""},
	}},
}

func seedTaxonomy(db *gorm.DB) error {
	for _, s := range ndgStandards {
		sec := model.Section{
			Number:      s.number,
			Title:       s.title,
			Description: s.description,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoNothing: true,
		}).Create(&sec).Error; err != nil {
			return fmt.Errorf("seed section %d: %w", s.number, err)
		}
		if sec.ID == 0 {
			// Insert hit the existing row; fetch its ID for the questions.
			if err := db.Where("number = ?", s.number).First(&sec).Error; err != nil {
				return err
			}
		}

		for i, q := range s.questions {
			question := model.Question{
				SectionID: sec.ID,
				Code:      q.code,
				Text:      q.text,
				Guidance:  q.guidance,
				Weight:    1,
				Order:     i + 1,
				Mandatory: true,
			}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoNothing: true,
			}).Create(&question).Error; err != nil {
				return fmt.Errorf("seed question %s: %w", q.code, err)
			}
		}
	}

	log.Println("Taxonomy seed completed")
	return nil
}
