package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/szymekpro/ztpai-mfs/controllers"
	"github.com/szymekpro/ztpai-mfs/middlewares"
	"github.com/szymekpro/ztpai-mfs/models"
	"github.com/szymekpro/ztpai-mfs/services"
	"github.com/szymekpro/ztpai-mfs/utils"
)

type Deps struct {
	Auth            *services.AuthService
	Users           *services.UserService
	Gyms            *services.GymService
	Trainers        *services.TrainerDirectory
	Availability    *services.AvailabilityService
	MembershipTypes *services.MembershipTypeService
	Memberships     *services.MembershipService
	Trainings       *services.TrainingService
	Payments        *services.PaymentService
	Hub             *services.RealtimeHub

	Redis              *redis.Client
	RateLimitPerMinute int
}

func SetupRouter(d Deps) *gin.Engine {
	utils.RegisterValidators()

	r := gin.Default()
	r.Use(middlewares.RequestID())

	authC := controllers.NewAuthController(d.Users, d.Auth)
	userC := controllers.NewUserController(d.Users)
	gymC := controllers.NewGymController(d.Gyms)
	trainerC := controllers.NewTrainerController(d.Trainers, d.Availability)
	membershipC := controllers.NewMembershipController(d.MembershipTypes, d.Memberships)
	trainingC := controllers.NewTrainingController(d.Trainings)
	paymentC := controllers.NewPaymentController(d.Payments)
	realtimeC := controllers.NewRealtimeController(d.Hub)

	api := r.Group("/api/v1")

	// Public auth routes
	limited := middlewares.RateLimit(d.Redis, "auth", d.RateLimitPerMinute)
	api.POST("/user/register", limited, authC.Register)
	api.POST("/token", limited, authC.Token)
	api.POST("/token/refresh", limited, authC.Refresh)

	protected := api.Group("")
	protected.Use(middlewares.AuthMiddleware(d.Auth))
	{
		protected.GET("/users/me", userC.Me)
		protected.GET("/users", userC.List)
		protected.GET("/users/:id", userC.Get)
		protected.PATCH("/users/:id", userC.Update)

		protected.GET("/gyms", gymC.List)
		protected.GET("/gyms/cities", gymC.Cities)
		protected.GET("/gyms/:id", gymC.Get)
		protected.POST("/gyms", gymC.Create)
		protected.PUT("/gyms/:id", gymC.Update)
		protected.DELETE("/gyms/:id", gymC.Delete)
		protected.POST("/gyms/:id/photo", controllers.PhotoUpload(d.Gyms.UploadPhoto))

		protected.GET("/trainers", trainerC.List)
		protected.GET("/trainers/:id", trainerC.Get)
		protected.POST("/trainers", trainerC.Create)
		protected.PUT("/trainers/:id", trainerC.Update)
		protected.DELETE("/trainers/:id", trainerC.Delete)
		protected.PUT("/trainers/:id/services", trainerC.SetServices)
		protected.POST("/trainers/:id/photo", controllers.PhotoUpload(d.Trainers.UploadPhoto))
		protected.GET("/trainers/:id/booked-hours", trainerC.BookedHours)
		protected.GET("/trainers/:id/booked-hours-range", trainerC.BookedHoursRange)

		protected.GET("/trainer-services", trainerC.ListServices)
		protected.GET("/trainer-services/:id", trainerC.GetService)
		protected.POST("/trainer-services", trainerC.CreateService)
		protected.PUT("/trainer-services/:id", trainerC.UpdateService)
		protected.DELETE("/trainer-services/:id", trainerC.DeleteService)

		protected.GET("/trainer-availabilities", trainerC.ListAvailabilities)
		protected.POST("/trainer-availabilities", trainerC.CreateAvailability)
		protected.PUT("/trainer-availabilities/:id", trainerC.UpdateAvailability)
		protected.DELETE("/trainer-availabilities/:id", trainerC.DeleteAvailability)

		protected.GET("/membership-types", membershipC.ListTypes)
		protected.GET("/membership-types/my-memberships", membershipC.MyMemberships)
		protected.GET("/membership-types/:id", membershipC.GetType)
		protected.POST("/membership-types", membershipC.CreateType)
		protected.PUT("/membership-types/:id", membershipC.UpdateType)
		protected.DELETE("/membership-types/:id", membershipC.DeleteType)
		protected.POST("/membership-types/:id/photo", controllers.PhotoUpload(d.MembershipTypes.UploadPhoto))

		protected.GET("/user-memberships", membershipC.List)
		protected.GET("/user-memberships/active", membershipC.Active)
		protected.GET("/user-memberships/:id", membershipC.Get)
		protected.POST("/user-memberships", membershipC.Purchase)

		protected.GET("/trainings", trainingC.List)
		protected.GET("/trainings/:id", trainingC.Get)
		protected.POST("/trainings", trainingC.Create)
		protected.PATCH("/trainings/:id", trainingC.Patch)
		protected.DELETE("/trainings/:id", trainingC.Delete)

		protected.GET("/payments", paymentC.List)
		protected.GET("/payments/:id", paymentC.Get)
		protected.PATCH("/payments/:id", paymentC.Patch)

		protected.GET("/ws/payments", realtimeC.PaymentsWS)
	}

	staff := protected.Group("")
	staff.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleEmployee))
	{
		staff.DELETE("/users/:id", userC.Delete)
		staff.PATCH("/user-memberships/:id", membershipC.Patch)
		staff.DELETE("/user-memberships/:id", membershipC.Delete)
		staff.POST("/payments", paymentC.Create)
		staff.DELETE("/payments/:id", paymentC.Delete)
	}

	return r
}
