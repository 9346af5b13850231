package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/app/controllers"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	feedbackController *controllers.FeedbackController,
	timetableController *controllers.TimetableController,
	examController *controllers.ExamController,
	paymentController *controllers.PaymentController,
	eventController *controllers.EventController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Feedback routes
	feedback := authenticated.Group("/feedback")
	{
		feedback.POST("", authMiddleware.RoleRequired(models.RoleStudent), feedbackController.CreateFeedback)
		feedback.GET("/student", authMiddleware.RoleRequired(models.RoleStudent), feedbackController.GetStudentFeedback)
		feedback.GET("/search", feedbackController.SearchFeedback)

		feedback.GET("/teacher", authMiddleware.RoleRequired(models.RoleTeacher), feedbackController.GetTeacherFeedback)
		feedback.GET("/teacher/pending", authMiddleware.RoleRequired(models.RoleTeacher), feedbackController.GetPendingFeedback)
		feedback.GET("/teacher/stats", authMiddleware.RoleRequired(models.RoleTeacher), feedbackController.GetTeacherStats)
		feedback.GET("/teacher/:teacherId", authMiddleware.RoleRequired(models.RoleAdmin), feedbackController.GetFeedbackForTeacher)

		feedback.GET("/course/:courseId", authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin), feedbackController.GetCourseFeedback)
		feedback.GET("/analytics/overview", authMiddleware.RoleRequired(models.RoleAdmin), feedbackController.GetAnalyticsOverview)

		feedback.GET("/:id", feedbackController.GetFeedbackByID)
		feedback.POST("/:id/respond", authMiddleware.RoleRequired(models.RoleTeacher), feedbackController.RespondToFeedback)
		feedback.PATCH("/:id/status", authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin), feedbackController.UpdateFeedbackStatus)
		feedback.POST("/:id/rate", authMiddleware.RoleRequired(models.RoleStudent), feedbackController.RateFeedback)
		feedback.PATCH("/:id/archive", authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin), feedbackController.ArchiveFeedback)
	}

	// Timetable routes
	timetables := authenticated.Group("/timetables")
	{
		timetables.GET("", timetableController.ListEntries)
		timetables.GET("/:id", timetableController.GetEntryByID)

		timetablesAdmin := timetables.Group("")
		timetablesAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			timetablesAdmin.POST("", timetableController.CreateEntry)
			timetablesAdmin.PUT("/:id", timetableController.UpdateEntry)
			timetablesAdmin.DELETE("/:id", timetableController.DeleteEntry)
		}
	}

	// Exam routes
	exams := authenticated.Group("/exam")
	{
		exams.GET("", examController.ListExams)
		exams.GET("/:id", examController.GetExamByID)
		exams.GET("/:id/results", examController.GetExamResults)
		exams.GET("/results/student/:studentId", examController.GetStudentResults)

		examsStaff := exams.Group("")
		examsStaff.Use(authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin))
		{
			examsStaff.POST("", examController.CreateExam)
			examsStaff.PUT("/:id", examController.UpdateExam)
			examsStaff.DELETE("/:id", examController.DeleteExam)
			examsStaff.POST("/:id/results", examController.AddResult)
		}
	}

	// Payment routes
	payments := authenticated.Group("/payments")
	{
		payments.GET("/outstanding", paymentController.GetOutstandingFees)
		payments.GET("/fees", paymentController.GetFees)

		paymentsAdmin := payments.Group("")
		paymentsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			paymentsAdmin.POST("", paymentController.RecordPayment)
			paymentsAdmin.GET("", paymentController.ListPayments)
			paymentsAdmin.GET("/student/:id", paymentController.GetStudentPayments)
			paymentsAdmin.POST("/fees", paymentController.CreateFee)
		}
	}

	// Event routes
	events := authenticated.Group("/events")
	{
		events.GET("", eventController.ListEvents)
		events.GET("/:id", eventController.GetEventByID)
		events.GET("/:id/participants", eventController.GetParticipants)
		events.POST("/:id/register", eventController.RegisterForEvent)
		events.PATCH("/:id/participants/:userId", eventController.UpdateParticipantStatus)

		eventsStaff := events.Group("")
		eventsStaff.Use(authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin))
		{
			eventsStaff.POST("", eventController.CreateEvent)
			eventsStaff.PUT("/:id", eventController.UpdateEvent)
			eventsStaff.DELETE("/:id", eventController.DeleteEvent)
		}
	}
}
