package model

import (
	"errors"
	"testing"

	"seriespay/internal/domain"
)

func TestDecodeCheckoutIntent(t *testing.T) {
	t.Run("single intent round-trips through metadata", func(t *testing.T) {
		in := SingleSeasonIntent{UserID: "u1", CreatorID: "c1", SeriesID: "sr1", SeasonID: "s1"}

		out, err := DecodeCheckoutIntent(in.EncodeMetadata())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		got, ok := out.(SingleSeasonIntent)
		if !ok {
			t.Fatalf("expected SingleSeasonIntent, got %T", out)
		}
		if got != in {
			t.Errorf("round trip lost fields: %+v != %+v", got, in)
		}
	})

	t.Run("bundle intent round-trips through metadata", func(t *testing.T) {
		in := BundleIntent{UserID: "u1", CreatorID: "c1", SeriesID: "sr1", SeasonIDs: []string{"s1", "s2", "s3"}}

		out, err := DecodeCheckoutIntent(in.EncodeMetadata())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		got, ok := out.(BundleIntent)
		if !ok {
			t.Fatalf("expected BundleIntent, got %T", out)
		}
		if len(got.SeasonIDs) != 3 || got.SeasonIDs[0] != "s1" || got.SeasonIDs[2] != "s3" {
			t.Errorf("season ids lost order: %v", got.SeasonIDs)
		}
	})

	t.Run("missing fields wrap ErrMissingMetadata", func(t *testing.T) {
		base := SingleSeasonIntent{UserID: "u1", CreatorID: "c1", SeriesID: "sr1", SeasonID: "s1"}
		for _, drop := range []string{MetaPurchaseType, MetaUserID, MetaCreatorID, MetaSeriesID, MetaSeasonID} {
			meta := base.EncodeMetadata()
			delete(meta, drop)
			if _, err := DecodeCheckoutIntent(meta); !errors.Is(err, domain.ErrMissingMetadata) {
				t.Errorf("dropping %q: expected ErrMissingMetadata, got %v", drop, err)
			}
		}
	})

	t.Run("unknown purchase type is rejected", func(t *testing.T) {
		meta := SingleSeasonIntent{UserID: "u1", CreatorID: "c1", SeriesID: "sr1", SeasonID: "s1"}.EncodeMetadata()
		meta[MetaPurchaseType] = "gift"
		if _, err := DecodeCheckoutIntent(meta); !errors.Is(err, domain.ErrMissingMetadata) {
			t.Errorf("expected ErrMissingMetadata for unknown type, got %v", err)
		}
	})

	t.Run("bundle with only separators in season_ids is rejected", func(t *testing.T) {
		meta := BundleIntent{UserID: "u1", CreatorID: "c1", SeriesID: "sr1", SeasonIDs: []string{"s1"}}.EncodeMetadata()
		meta[MetaSeasonIDs] = " , ,"
		if _, err := DecodeCheckoutIntent(meta); !errors.Is(err, domain.ErrMissingMetadata) {
			t.Errorf("expected ErrMissingMetadata, got %v", err)
		}
	})
}

func TestCheckoutKeys(t *testing.T) {
	t.Run("single uses the session id itself", func(t *testing.T) {
		keys := SingleSeasonIntent{SeasonID: "s1"}.CheckoutKeys("cs_1")
		if len(keys) != 1 || keys[0] != "cs_1" {
			t.Errorf("got %v", keys)
		}
	})

	t.Run("bundle derives one key per season", func(t *testing.T) {
		keys := BundleIntent{SeasonIDs: []string{"s1", "s2"}}.CheckoutKeys("cs_1")
		if len(keys) != 2 || keys[0] != "cs_1_s1" || keys[1] != "cs_1_s2" {
			t.Errorf("got %v", keys)
		}
	})
}
