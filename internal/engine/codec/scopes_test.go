package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports/mocks"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.uber.org/mock/gomock"
)

type pluginExtension struct {
	Name string
}

type projectScript struct {
	Name string
}

func TestClassScopes_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)

	settings := &domain.ScopeSpec{
		Name:            "settings",
		LocalClassPath:  []string{"settings.jar"},
		ExportClassPath: []string{"api.jar"},
	}
	project := &domain.ScopeSpec{
		Parent:             settings,
		Name:               "project",
		LocalClassPath:     []string{"impl.jar"},
		ImplementationHash: "abc123",
	}
	extType := reflectType[pluginExtension]()
	scriptType := reflectType[projectScript]()

	lookup := mocks.NewMockScopeLookup(ctrl)
	lookup.EXPECT().ScopeOf(extType).Return(settings, domain.ScopeExport, true).Times(1)
	lookup.EXPECT().ScopeOf(scriptType).Return(project, domain.ScopeLocal, true).Times(1)

	data := encode(t, []codec.Option{codec.WithScopeLookup(lookup)},
		&pluginExtension{Name: "ext"},
		&projectScript{Name: "build"},
		&pluginExtension{Name: "ext2"},
	)

	root := mocks.NewMockClassLoaderScope(ctrl)
	settingsScope := mocks.NewMockClassLoaderScope(ctrl)
	projectScope := mocks.NewMockClassLoaderScope(ctrl)
	exportLoader := mocks.NewMockTypeLoader(ctrl)
	localLoader := mocks.NewMockTypeLoader(ctrl)

	factory := mocks.NewMockScopeFactory(ctrl)
	factory.EXPECT().Root().Return(root).Times(1)

	gomock.InOrder(
		root.EXPECT().CreateChild("settings").Return(settingsScope),
		settingsScope.EXPECT().Local([]string{"settings.jar"}).Return(nil),
		settingsScope.EXPECT().Export([]string{"api.jar"}).Return(nil),
		settingsScope.EXPECT().Lock(),
		settingsScope.EXPECT().ExportLoader().Return(exportLoader),
		exportLoader.EXPECT().LoadType(codec.ClassName(extType)).Return(extType, nil),
		settingsScope.EXPECT().CreateLockedChild("project", []string{"impl.jar"}, "abc123", nil).Return(projectScope),
		projectScope.EXPECT().LocalLoader().Return(localLoader),
		localLoader.EXPECT().LoadType(codec.ClassName(scriptType)).Return(scriptType, nil),
	)

	got := decode(t, data, []codec.Option{codec.WithScopeFactory(factory)})
	require.Len(t, got, 3)
	assert.Equal(t, &pluginExtension{Name: "ext"}, got[0])
	assert.Equal(t, &projectScript{Name: "build"}, got[1])
	assert.Equal(t, &pluginExtension{Name: "ext2"}, got[2])
}

func TestClassScopes_ScopeWithoutFactory(t *testing.T) {
	ctrl := gomock.NewController(t)

	lookup := mocks.NewMockScopeLookup(ctrl)
	lookup.EXPECT().ScopeOf(gomock.Any()).Return(&domain.ScopeSpec{Name: "settings"}, domain.ScopeLocal, true)

	data := encode(t, []codec.Option{codec.WithScopeLookup(lookup)}, &pluginExtension{Name: "ext"})

	r, err := codec.NewReader(bytesReader(data))
	require.NoError(t, err)
	_, err = r.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStreamCorrupted)
}
