package notification_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/edukhmer/notifykit/pkg/notification"
)

// The digest queries read and rewrite the data column with jsonb operators
// (->>, jsonb_set), so the serialized fields must migrate as jsonb rather
// than text.
func TestNotificationColumnsAreJSONB(t *testing.T) {
	t.Parallel()

	s, err := schema.Parse(&notification.Notification{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, field := range []string{"Data", "Actions"} {
		f := s.LookUpField(field)
		require.NotNil(t, f, field)
		require.Equal(t, "jsonb", f.TagSettings["TYPE"], field)
		require.Equal(t, "json", f.TagSettings["SERIALIZER"], field)
	}
}
