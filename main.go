package main

import (
	"taskflow/config"
	"taskflow/logging"
	"taskflow/models"
	"taskflow/routes"
)

func main() {
	config.LoadEnv()
	logging.InitLogger("taskflow", config.Getenv("LOG_FILE", "logs/taskflow.log"))

	db := config.ConnectDB()
	db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Task{},
		&models.Tag{},
		&models.Comment{},
		&models.Attachment{},
		&models.Invitation{},
		&models.Notification{},
	)

	r := routes.SetupRouter(db)
	r.Run(":" + config.Getenv("PORT", "8000"))
}
