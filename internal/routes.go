package internal

import (
	"net/http"
	"studytime/internal/controllers"
	"studytime/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, auth providers.AuthProviderInterface) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	secured := func(h http.HandlerFunc) http.Handler { return auth.Middleware(h) }

	routers.Post("/api/register", http.HandlerFunc(apiController.Register))
	routers.Post("/api/login", http.HandlerFunc(apiController.Login))

	routers.Get("/api/user", secured(apiController.GetUser))
	routers.Patch("/api/user/daily-goal", secured(apiController.UpdateDailyGoal))

	routers.Post("/api/subjects", secured(apiController.CreateSubject))
	routers.Get("/api/subjects", secured(apiController.ListSubjects))
	routers.Patch("/api/subjects/{id}/daily-target", secured(apiController.UpdateDailyTarget))

	routers.Post("/api/sessions/start", secured(apiController.StartSession))
	routers.Post("/api/sessions/{id}/end", secured(apiController.EndSession))
	routers.Post("/api/sessions/{id}/tag", secured(apiController.TagBreak))
	routers.Post("/api/sessions/{id}/reconcile", secured(apiController.Reconcile))
	routers.Get("/api/sessions/active", secured(apiController.GetActiveSessions))

	routers.Get("/api/stats/daily", secured(apiController.GetDailyStats))
	routers.Get("/api/achievements", secured(apiController.GetAchievements))
	routers.Get("/api/leaderboard", secured(apiController.GetLeaderboard))

	routers.Get("/api/notifications", secured(apiController.ListNotifications))
	routers.Post("/api/notifications/{id}/read", secured(apiController.MarkNotificationRead))

	routers.Post("/api/groups", secured(apiController.CreateGroup))
	routers.Post("/api/groups/{id}/members", secured(apiController.AddGroupMember))
	routers.Get("/api/groups", secured(apiController.ListGroups))
	return routers
}
