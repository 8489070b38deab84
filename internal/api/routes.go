package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitlife/challenge-api/internal/repository"
	"fitlife/challenge-api/internal/service"
)

// SetupRoutes wires every handler onto the router. The auth middleware needs
// the user repository to resolve token subjects to rows.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	userRepo repository.UserRepository,
	authService service.AuthService,
	challengeService service.ChallengeService,
	workoutService service.WorkoutService,
	userService service.UserService,
	maxImageBytes int64,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	challengeHandler := NewChallengeHandler(challengeService, maxImageBytes)
	workoutHandler := NewWorkoutHandler(workoutService)

	authMiddleware := AuthMiddleware(jwtSecret, userRepo)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signUp", authHandler.SignUp)
		authGroup.POST("/signIn", authHandler.SignIn)
	}

	userGroup := router.Group("/users")
	userGroup.Use(authMiddleware)
	{
		userGroup.GET("/profile", userHandler.Profile)
		userGroup.PUT("/EditProfile/:id", userHandler.EditProfile)
		userGroup.GET("/:userId/created-challenges", userHandler.CreatedChallenges)
		userGroup.GET("/:userId/participated-challenges", challengeHandler.Participations)
	}

	challengeGroup := router.Group("/challenge")
	challengeGroup.Use(authMiddleware)
	{
		challengeGroup.POST("/create", challengeHandler.Create)
		challengeGroup.GET("/getById/:id", challengeHandler.GetByID)
		challengeGroup.GET("/getAll", challengeHandler.GetAll)
		challengeGroup.PATCH("/update/:id", challengeHandler.Update)
		challengeGroup.DELETE("/delete/:id", challengeHandler.Delete)

		challengeGroup.POST("/:id/join", challengeHandler.Join)
		challengeGroup.DELETE("/:id/leave", challengeHandler.Leave)
		challengeGroup.GET("/:id/image", challengeHandler.ImageURL)
		challengeGroup.GET("/:id/participants", challengeHandler.Participants)
		challengeGroup.GET("/:id/participations", challengeHandler.Participations)
		challengeGroup.PATCH("/:id/participants/:pid", challengeHandler.UpdateParticipation)

		challengeGroup.GET("/active", challengeHandler.Active)
		challengeGroup.GET("/completed", challengeHandler.Completed)
		challengeGroup.GET("/upcoming", challengeHandler.Upcoming)
	}

	workoutGroup := router.Group("/workout")
	workoutGroup.Use(authMiddleware)
	{
		workoutGroup.POST("/create-workout-plan", workoutHandler.CreatePlan)
		workoutGroup.GET("/get-all-plans", workoutHandler.ListPlans)
		workoutGroup.GET("/get-plan/:id", workoutHandler.GetPlan)
		workoutGroup.PATCH("/update-plan/:id", workoutHandler.UpdatePlan)
		workoutGroup.DELETE("/delete-plan/:id", workoutHandler.DeletePlan)

		workoutGroup.POST("/create-split/:id", workoutHandler.CreateSplit)
		workoutGroup.POST("/add-split/:planId", workoutHandler.AddSplit)
		workoutGroup.GET("/get-all-splits/:id", workoutHandler.ListSplits)
		workoutGroup.GET("/get-split/:planId/:splitId", workoutHandler.GetSplit)
		workoutGroup.PATCH("/update/plan/:planId/split/:splitId", workoutHandler.UpdateSplit)
		workoutGroup.DELETE("/delete/plan/:planId/split/:splitId", workoutHandler.DeleteSplit)

		workoutGroup.POST("/create-exercise/:splitId", workoutHandler.CreateExercise)
		workoutGroup.PATCH("/update-exercise/:id", workoutHandler.UpdateExercise)
		workoutGroup.DELETE("/delete-exercise/:id", workoutHandler.DeleteExercise)
	}
}
