package relay

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/akademflow/backend/core"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "Kurs ishi", want: "kurs_ishi"},
		{text: "  Iqtisodiyot  ", want: "iqtisodiyot"},
		{text: "O‘zbek tili va adabiyoti", want: "o_zbek_tili_va_adabiyoti"},
		{text: "Jahon iqtisodiyoti — xalqaro (munosabatlar)", want: "jahon_iqtisodiyoti_xalqaro_munosabatlar"},
		{text: "1-bosqich", want: "1_bosqich"},
		{text: "a.b,c:d;e!f?g", want: "a_b_c_d_e_f_g"},
		{text: "!!!", want: ""},
		{text: "", want: ""},
		{text: strings.Repeat("ab ", 30), want: strings.TrimSuffix(strings.Repeat("ab_", 17), "_")[:50]},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Slugify(tt.text); got != tt.want {
				t.Errorf("Slugify() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestSlugify_runeTruncation(t *testing.T) {
	got := Slugify(strings.Repeat("ў", 60))
	if n := len([]rune(got)); n != 50 {
		t.Errorf("len(Slugify()) = %d runes; want 50", n)
	}
}

func TestHashtagForFileType(t *testing.T) {
	tests := []struct {
		fileType string
		want     string
	}{
		{fileType: "Ma'lumotnoma", want: "#malumotnoma"},
		{fileType: "maʼlumotnoma", want: "#malumotnoma"},
		{fileType: "MA`LUMOTNOMA", want: "#malumotnoma"},
		{fileType: "Ma’lumotnoma", want: "#malumotnoma"},
		{fileType: "Kurs ishi", want: "#kurs_ishi"},
		{fileType: " ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.fileType, func(t *testing.T) {
			if got := HashtagForFileType(tt.fileType); got != tt.want {
				t.Errorf("HashtagForFileType() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestHashtags(t *testing.T) {
	tests := []struct {
		name     string
		stage    core.StageID
		field    string
		fileType string
		want     []string
	}{
		{name: "all", stage: core.StageOne, field: "Iqtisodiyot", fileType: "Kurs ishi", want: []string{"#kurs_ishi", "#1_bosqich", "#iqtisodiyot"}},
		{name: "no file type", stage: core.StageTwo, field: "Iqtisodiyot", want: []string{"#2_bosqich", "#iqtisodiyot"}},
		{name: "duplicates", stage: core.StageOne, field: "Kurs-ishi", fileType: "Kurs ishi", want: []string{"#kurs_ishi", "#1_bosqich"}},
		{name: "empty", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hashtags(tt.stage, tt.field, tt.fileType)
			if strings.Join(got, " ") != strings.Join(tt.want, " ") || len(got) != len(tt.want) {
				t.Errorf("Hashtags() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	ts := time.Date(2025, 9, 7, 9, 5, 33, 0, time.UTC)
	got := Compose(core.StageOne, "Iqtisodiyot", "Ma'lumotnoma", "Ali <Valiyev>", ts)

	g := goldie.New(t)
	g.Assert(t, "TestCompose", []byte(got))

	if again := Compose(core.StageOne, "Iqtisodiyot", "Ma'lumotnoma", "Ali <Valiyev>", ts); again != got {
		t.Errorf("Compose() is not deterministic: %q != %q", again, got)
	}
}
