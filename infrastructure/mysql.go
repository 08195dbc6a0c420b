package infrastructure

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"resume-match/domain"
)

func NewMySQLConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	err = db.AutoMigrate(
		&domain.GuestUser{},
		&domain.Job{},
		&domain.Asset{},
		&domain.JobMatch{},
		&domain.JobMatchAnalysis{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if err := seedJobs(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedJobs inserts starter job listings so a fresh database has something
// to match against.
func seedJobs(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Job{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count jobs: %w", err)
	}
	if count > 0 {
		return nil
	}

	jobs := []domain.Job{
		{
			JobTitle:    "Backend Engineer",
			CompanyName: "Acme Corp",
			JobDescription: "We are looking for a Backend Engineer with strong Go experience. " +
				"Responsibilities include designing RESTful APIs, working with MySQL and RabbitMQ, " +
				"and integrating LLM-powered features. A Bachelor's Degree in Computer Science " +
				"or equivalent experience is required.",
			Location:       "Jakarta",
			SeniorityLevel: "Mid-Senior level",
		},
		{
			JobTitle:    "Data Engineer",
			CompanyName: "Acme Corp",
			JobDescription: "Seeking a Data Engineer experienced with Python, SQL and cloud data " +
				"pipelines. Experience with Airflow and dbt is a plus. Strong communication " +
				"skills required.",
			Location:       "Remote",
			SeniorityLevel: "Associate",
		},
	}

	if err := db.Create(&jobs).Error; err != nil {
		return fmt.Errorf("seed jobs: %w", err)
	}
	return nil
}
