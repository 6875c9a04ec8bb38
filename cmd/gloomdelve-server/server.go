package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gloomdelve/server/internal/api"
	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/version"
)

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.RouteHealthCheck, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(constants.RouteVersion, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version.Version})
	})

	battles := api.NewBattleHandlers(a.svc)
	runs := api.NewRunHandlers(a.svc)
	data := api.NewCatalogHandlers(a.provider)

	g := r.Group(constants.RouteAPIPrefix)
	{
		g.POST(constants.RouteBattles, battles.StartBattle)
		g.GET(constants.RouteBattleByID, battles.GetBattle)
		g.POST(constants.RouteBattleActions, battles.SubmitAction)

		g.POST(constants.RouteRuns, runs.StartRun)
		g.GET(constants.RouteRunByID, runs.GetRun)
		g.POST(constants.RouteRunAdvance, runs.Advance)
		g.POST(constants.RouteRunAbandon, runs.Abandon)

		g.GET(constants.RouteDungeons, data.ListDungeons)
		g.GET(constants.RouteSkills, data.ListSkills)
		g.GET(constants.RouteItems, data.ListItems)
	}
	return r
}
