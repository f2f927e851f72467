package ember

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := newApp()

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)
}

func TestApp_StepRunsStagesInOrder(t *testing.T) {
	app := newApp()
	var calls []string
	app.UseSystem(System(func() { calls = append(calls, "render") }).InStage(Render))
	app.UseSystem(System(func() { calls = append(calls, "prelude") }).InStage(Prelude))
	app.UseSystem(System(func() { calls = append(calls, "update") }))
	app.UseSystem(System(func() { calls = append(calls, "exit") }).InStage(Exit))

	app.Step()
	assert.Equal(t, []string{"prelude", "update", "render"}, calls)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_InjectsResourcesAndCommands(t *testing.T) {
	app := newApp()
	app.addResources(NewMockResource1("a"))

	var seen string
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		seen = r.name
		cmd.Exit()
	}))
	app.Run()

	assert.Equal(t, "a", seen)
	assert.True(t, app.Exiting())
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := newApp()
	app.UseSystem(System(func(*MockResource2) {}))
	assert.Panics(t, app.Step)
}

func TestApp_ShutdownRunsExitInReverse(t *testing.T) {
	app := newApp()
	var calls []string
	app.UseSystem(System(func() { calls = append(calls, "window") }).InStage(Exit))
	app.UseSystem(System(func() { calls = append(calls, "renderer") }).InStage(Exit))

	app.Shutdown()
	app.Shutdown()
	assert.Equal(t, []string{"renderer", "window"}, calls)
}

func TestApp_UseStage(t *testing.T) {
	app := newApp()
	physics := Stage{Name: "Physics"}
	app.UseStage(physics, AfterStage(Update))

	var calls []string
	app.UseSystem(System(func() { calls = append(calls, "post") }).InStage(PostUpdate))
	app.UseSystem(System(func() { calls = append(calls, "physics") }).InStage(physics))
	app.UseSystem(System(func() { calls = append(calls, "update") }).InStage(Update))
	app.Step()

	assert.Equal(t, []string{"update", "physics", "post"}, calls)
	assert.Panics(t, func() { app.UseStage(physics, BeforeStage(Render)) })
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "missing"})) })
	assert.Panics(t, func() { app.UseSystem(System(func() {}).InStage(Stage{Name: "missing"})) })
}
