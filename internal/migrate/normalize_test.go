package migrate

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func Test_Normalize_LegacyGermanSpellings(t *testing.T) {
	when := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	doc := bson.M{
		"_id":         primitive.NewObjectID(),
		"auftrag":     "job-42",
		"zeit":        primitive.NewDateTimeFromTime(when),
		"inhalt":      "Hallo",
		"von":         "anna@example.com",
		"empfaengerEmail": "max@example.com",
		"kundenName":  "Anna Schmidt",
		"archiviert":  true,
	}

	set, unset, ok := Normalize(doc)
	if !ok {
		t.Fatal("document with a legacy grouping key must be migratable")
	}
	if set["auftrag_id"] != "job-42" {
		t.Fatalf("auftrag_id: %v", set["auftrag_id"])
	}
	if got, _ := set["created_at"].(time.Time); !got.Equal(when) {
		t.Fatalf("created_at: %v", set["created_at"])
	}
	if set["text"] != "Hallo" {
		t.Fatalf("text: %v", set["text"])
	}
	if set["an"] != "max@example.com" {
		t.Fatalf("an: %v", set["an"])
	}
	if set["kunde_name"] != "Anna Schmidt" {
		t.Fatalf("kunde_name: %v", set["kunde_name"])
	}
	if set["archived"] != true {
		t.Fatalf("archived: %v", set["archived"])
	}
	for _, legacy := range []string{"auftrag", "zeit", "inhalt", "empfaengerEmail", "kundenName", "archiviert"} {
		if _, present := unset[legacy]; !present {
			t.Errorf("legacy key %q must be unset", legacy)
		}
	}
}

func Test_Normalize_ObjectIDGroupingKey(t *testing.T) {
	oid := primitive.NewObjectID()
	set, _, ok := Normalize(bson.M{"orderId": oid, "text": "x"})
	if !ok || set["auftrag_id"] != oid.Hex() {
		t.Fatalf("ObjectID keys must canonicalize to hex: %v ok=%v", set["auftrag_id"], ok)
	}
}

func Test_Normalize_NoGroupingKey(t *testing.T) {
	if _, _, ok := Normalize(bson.M{"text": "orphan"}); ok {
		t.Fatal("a document without any grouping key cannot be aggregated")
	}
}

func Test_Normalize_TrashedWinsOverArchived(t *testing.T) {
	doc := bson.M{
		"auftragId":  "job-9",
		"archiviert": true,
		"geloescht":  true,
	}
	set, _, ok := Normalize(doc)
	if !ok {
		t.Fatal("migratable")
	}
	if set["deleted"] != true || set["archived"] != false {
		t.Fatalf("trash must clear the archive flag: %v", set)
	}
}

func Test_Normalize_CanonicalDocIsUntouched(t *testing.T) {
	doc := bson.M{
		"_id":        primitive.NewObjectID(),
		"auftrag_id": "job-42",
		"von":        "anna@example.com",
		"an":         "max@example.com",
		"text":       "Hallo",
		"kind":       "normal",
		"created_at": primitive.NewDateTimeFromTime(time.Now()),
		"archived":   false,
		"deleted":    false,
	}
	set, unset, ok := Normalize(doc)
	if !ok {
		t.Fatal("canonical doc must be accepted")
	}
	if len(set) != 0 || len(unset) != 0 {
		t.Fatalf("canonical doc must produce no update: set=%v unset=%v", set, unset)
	}
}
