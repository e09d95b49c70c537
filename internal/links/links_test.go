package links

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-watch/internal/domain/entity"
)

func TestSynthesizer_For_Apartment(t *testing.T) {
	s := New("춘천")

	pair := s.For(entity.KindApartment, "퇴계동", "e편한세상춘천한숲시티")

	require.True(t, strings.HasPrefix(pair.Primary, "https://kbland.kr/search?q="))
	require.True(t, strings.HasPrefix(pair.Secondary, "https://new.land.naver.com/search?sk="))

	u, err := url.Parse(pair.Primary)
	require.NoError(t, err)
	assert.Equal(t, "춘천 퇴계동 e편한세상춘천한숲시티", u.Query().Get("q"))

	u, err = url.Parse(pair.Secondary)
	require.NoError(t, err)
	assert.Equal(t, "춘천 퇴계동 e편한세상춘천한숲시티", u.Query().Get("sk"))
}

func TestSynthesizer_For_Land(t *testing.T) {
	s := New("춘천")

	pair := s.For(entity.KindLand, "신북읍", "전")

	assert.Equal(t, "https://map.naver.com/p/search/"+url.PathEscape("춘천 신북읍 전"), pair.Primary)

	u, err := url.Parse(pair.Secondary)
	require.NoError(t, err)
	assert.Equal(t, "춘천 신북읍 전", u.Query().Get("sk"), "the land-use category narrows the search")
}

func TestSynthesizer_For_PlaceholderFallsBackToDistrict(t *testing.T) {
	s := New("춘천")

	pair := s.For(entity.KindApartment, "온의동", entity.PlaceholderDate)

	u, err := url.Parse(pair.Primary)
	require.NoError(t, err)
	assert.Equal(t, "춘천 온의동", u.Query().Get("q"))
}
