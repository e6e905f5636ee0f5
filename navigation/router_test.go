package navigation_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/stretchr/testify/assert"
)

func TestRouterStartsAtHome(t *testing.T) {
	router := navigation.NewRouter()
	assert.Equal(t, navigation.RouteHome, router.Current().Path)
}

func TestReplaceNotifiesListenersInOrder(t *testing.T) {
	router := navigation.NewRouter()

	var order []string
	router.Subscribe(func(route navigation.Route) { order = append(order, "first:"+route.Path) })
	router.Subscribe(func(route navigation.Route) { order = append(order, "second:"+route.Path) })

	router.Replace(navigation.RouteAuth, nil)

	assert.Equal(t, []string{"first:/auth", "second:/auth"}, order)
	assert.Equal(t, navigation.RouteAuth, router.Current().Path)
}

func TestReplaceCarriesParams(t *testing.T) {
	router := navigation.NewRouter()

	router.Replace(navigation.RouteAuth, url.Values{navigation.ParamReset: []string{"1"}})

	assert.Equal(t, "1", router.Current().Params.Get(navigation.ParamReset))
}

func TestReplaceFromListenerRunsAfterCurrentPass(t *testing.T) {
	router := navigation.NewRouter()

	var seen []string
	router.Subscribe(func(route navigation.Route) {
		seen = append(seen, route.Path)
		if route.Path == navigation.RouteReset {
			router.Replace(navigation.RouteResetPassword, nil)
		}
	})
	router.Subscribe(func(route navigation.Route) {
		seen = append(seen, "late:"+route.Path)
	})

	router.Replace(navigation.RouteReset, nil)

	// The nested replace ran only after both listeners saw /reset.
	assert.Equal(t, []string{"/reset", "late:/reset", "/reset-password", "late:/reset-password"}, seen)
	assert.Equal(t, navigation.RouteResetPassword, router.Current().Path)
}

func TestBackReturnsToPreviousRoute(t *testing.T) {
	router := navigation.NewRouter()
	router.Replace(navigation.RouteAuth, nil)
	router.Replace(navigation.RouteForgotPassword, nil)

	router.Back()
	assert.Equal(t, navigation.RouteAuth, router.Current().Path)

	router.Back()
	assert.Equal(t, navigation.RouteHome, router.Current().Path)

	// At the start of history, Back stays put.
	router.Back()
	assert.Equal(t, navigation.RouteHome, router.Current().Path)
}

func TestBackFromListenerPopsHistory(t *testing.T) {
	router := navigation.NewRouter()
	router.Replace(navigation.RouteAuth, nil)

	backOnce := true
	router.Subscribe(func(route navigation.Route) {
		if route.Path == navigation.RouteForgotPassword && backOnce {
			backOnce = false
			router.Back()
		}
	})

	router.Replace(navigation.RouteForgotPassword, nil)
	assert.Equal(t, navigation.RouteAuth, router.Current().Path)

	// The queued Back consumed the /auth history entry rather than pushing
	// /forgot-password on top of it, so the next Back reaches home.
	router.Back()
	assert.Equal(t, navigation.RouteHome, router.Current().Path)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	router := navigation.NewRouter()

	calls := 0
	unsubscribe := router.Subscribe(func(navigation.Route) { calls++ })
	unsubscribe()

	router.Replace(navigation.RouteAuth, nil)
	assert.Zero(t, calls)
}

func TestInSignInFlow(t *testing.T) {
	assert.True(t, navigation.InSignInFlow(navigation.RouteAuth))
	assert.True(t, navigation.InSignInFlow(navigation.RouteForgotPassword))
	assert.True(t, navigation.InSignInFlow(navigation.RouteReset))
	assert.True(t, navigation.InSignInFlow(navigation.RouteResetPassword))
	assert.True(t, navigation.InSignInFlow(navigation.RouteRedirect))
	assert.False(t, navigation.InSignInFlow(navigation.RouteHome))
}
