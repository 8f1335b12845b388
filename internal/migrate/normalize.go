// Package migrate rewrites message documents written by older app
// versions into the canonical schema. Field-name tolerance lives here
// and only here; the read path matches canonical names exactly.
package migrate

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobdropo/messages-service/internal/domain"
)

// Historical spellings per concept, most recent first. The first
// populated field wins.
var (
	legacyAuftragKeys = []string{"auftragId", "auftrag", "auftragsId", "orderId", "jobId", "threadId", "konversationId", "conversationId", "chatId"}
	legacyCreatedKeys = []string{"createdAt", "sentAt", "timestamp", "zeit", "datum", "erstelltAm", "gesendetAm", "updatedAt", "modifiedAt"}
	legacyTextKeys    = []string{"text", "nachricht", "message", "body", "inhalt", "preview", "betreff"}
	legacyVonKeys     = []string{"von", "from", "senderEmail", "sender"}
	legacyAnKeys      = []string{"an", "to", "recipientEmail", "empfaengerEmail"}
	legacyNameKeys    = []string{"kundeName", "kundenName", "auftraggeberName", "kunde", "customerName"}
	legacyKindKeys    = []string{"type", "typ"}
	legacyArchKeys    = []string{"archiviert"}
)

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case primitive.ObjectID:
		return t.Hex()
	}
	return ""
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func firstString(doc bson.M, canonical string, legacy []string) (string, string) {
	if s := asString(doc[canonical]); s != "" {
		return s, ""
	}
	for _, k := range legacy {
		if s := asString(doc[k]); s != "" {
			return s, k
		}
	}
	return "", ""
}

// Normalize computes the $set/$unset update that migrates one raw
// document to the canonical schema. ok=false means the document carries
// no recognizable grouping key and cannot be aggregated; such records
// are reported, not rewritten.
func Normalize(doc bson.M) (set bson.M, unset bson.M, ok bool) {
	set = bson.M{}
	unset = bson.M{}

	auftragID, from := firstString(doc, "auftrag_id", legacyAuftragKeys)
	if auftragID == "" {
		return nil, nil, false
	}
	if from != "" || asString(doc["auftrag_id"]) == "" {
		set["auftrag_id"] = auftragID
	}
	for _, k := range legacyAuftragKeys {
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if _, have := doc["created_at"]; !have {
		for _, k := range legacyCreatedKeys {
			if ts, good := asTime(doc[k]); good {
				set["created_at"] = ts.UTC()
				break
			}
		}
	}
	for _, k := range legacyCreatedKeys {
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if text, legacyKey := firstString(doc, "text", legacyTextKeys); text != "" && legacyKey != "" {
		set["text"] = text
	}
	for _, k := range legacyTextKeys {
		if k == "text" {
			continue
		}
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if von, legacyKey := firstString(doc, "von", legacyVonKeys); von != "" && legacyKey != "" {
		set["von"] = von
	}
	for _, k := range legacyVonKeys {
		if k == "von" {
			continue
		}
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if an, legacyKey := firstString(doc, "an", legacyAnKeys); an != "" && legacyKey != "" {
		set["an"] = an
	}
	for _, k := range legacyAnKeys {
		if k == "an" {
			continue
		}
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if name, legacyKey := firstString(doc, "kunde_name", legacyNameKeys); name != "" && legacyKey != "" {
		set["kunde_name"] = name
	}
	for _, k := range legacyNameKeys {
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if kind, legacyKey := firstString(doc, "kind", legacyKindKeys); legacyKey != "" {
		if kind != domain.KindSystem {
			kind = domain.KindNormal
		}
		set["kind"] = kind
	} else if asString(doc["kind"]) == "" {
		set["kind"] = domain.KindNormal
	}
	for _, k := range legacyKindKeys {
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if _, have := doc["archived"]; !have {
		archived := false
		for _, k := range legacyArchKeys {
			if b, isBool := doc[k].(bool); isBool {
				archived = b
				break
			}
		}
		set["archived"] = archived
	}
	for _, k := range legacyArchKeys {
		if _, present := doc[k]; present {
			unset[k] = ""
		}
	}

	if _, have := doc["deleted"]; !have {
		deleted := false
		if b, isBool := doc["geloescht"].(bool); isBool {
			deleted = b
		}
		set["deleted"] = deleted
	}
	if _, present := doc["geloescht"]; present {
		unset["geloescht"] = ""
	}

	// archived+deleted must never coexist after migration
	if set["deleted"] == true || doc["deleted"] == true {
		if set["archived"] == true || doc["archived"] == true {
			set["archived"] = false
		}
	}

	return set, unset, true
}
