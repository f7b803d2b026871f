package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/config"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/handlers"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/middleware"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/repository"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/services"
	chatws "github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)

	chatHub := chatws.NewHub()
	go chatHub.Run()

	chatService := services.NewChatService(userRepo, messageRepo)
	scoreService := services.NewScoreService(db, userRepo, scoreRepo)
	diaryService := services.NewDiaryService(userRepo, diaryRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)
	trainerHandler := handlers.NewTrainerHandler(userRepo, scoreService, diaryService)
	scoreboardHandler := handlers.NewScoreboardHandler(scoreService)
	diaryHandler := handlers.NewDiaryHandler(diaryService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/trainers", authHandler.ListTrainers)
	auth.Get("/trainer/:trainerId", authHandler.GetTrainer)
	auth.Get("/user", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)
	auth.Put("/update-profile", middleware.AuthRequired(cfg.JWTSecret), authHandler.UpdateProfile)
	auth.Put("/update-password", middleware.AuthRequired(cfg.JWTSecret), authHandler.UpdatePassword)

	// Registered ahead of the bearer-guarded group so websocket clients can
	// pass their token as a query parameter.
	api.Use("/ws", chatHandler.WebSocketAuth)
	api.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	authed := api.Group("", middleware.AuthRequired(cfg.JWTSecret))

	messages := authed.Group("/messages")
	messages.Get("/conversations", chatHandler.ListConversations)
	messages.Get("/available-users", chatHandler.ListAvailableUsers)
	messages.Get("/:otherUserId", chatHandler.GetMessages)

	trainer := authed.Group("/trainer", middleware.TrainerRequired())
	trainer.Get("/students", trainerHandler.ListStudents)
	trainer.Get("/leaderboard", trainerHandler.Leaderboard)
	trainer.Post("/student/:studentId/score", trainerHandler.AwardScore)
	trainer.Get("/student/:studentId/scores", trainerHandler.StudentScores)
	trainer.Get("/student/:studentId/today-meals", trainerHandler.StudentTodayMeals)
	trainer.Get("/student/:studentId/today-workouts", trainerHandler.StudentTodayWorkouts)

	authed.Get("/scoreboard", scoreboardHandler.GetScoreboard)

	meals := authed.Group("/meals")
	meals.Post("/add", diaryHandler.AddMeal)
	meals.Get("/today", diaryHandler.TodayMeals)

	workouts := authed.Group("/workouts")
	workouts.Post("/add", diaryHandler.AddWorkout)
	workouts.Get("/today", diaryHandler.TodayWorkouts)
}
