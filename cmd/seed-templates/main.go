package main

import (
	"log"

	"review-management-api/config"
	"review-management-api/models"
	"review-management-api/services"

	"github.com/joho/godotenv"
)

// Seeds the built-in criteria templates. Safe to re-run: templates already
// present (matched by name) are left untouched.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	seeded, skipped := 0, 0
	for _, template := range services.BuiltinTemplates() {
		var existing models.CriteriaTemplate
		err := config.DB.Where("template_name = ?", template.TemplateName).First(&existing).Error
		if err == nil {
			skipped++
			continue
		}

		if err := config.DB.Create(&template).Error; err != nil {
			log.Fatalf("Failed to seed template '%s': %v", template.TemplateName, err)
		}
		seeded++
	}

	log.Printf("Seeded %d template(s), %d already present", seeded, skipped)
}
