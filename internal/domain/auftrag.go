package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Auftrag struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Titel            string             `bson:"titel" json:"titel"`
	Beschreibung     string             `bson:"beschreibung,omitempty" json:"beschreibung,omitempty"`
	Kategorie        string             `bson:"kategorie,omitempty" json:"kategorie,omitempty"`
	Status           string             `bson:"status" json:"status"` // "offen" | "vergeben" | "abgeschlossen"
	ErstelltVon      string             `bson:"erstellt_von" json:"erstellt_von"` // owner email
	AuftraggeberName string             `bson:"auftraggeber_name,omitempty" json:"auftraggeber_name,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

type Angebot struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuftragID          string             `bson:"auftrag_id" json:"auftrag_id"`
	DienstleisterEmail string             `bson:"dienstleister_email" json:"dienstleister_email"`
	Preis              float64            `bson:"preis" json:"preis"`
	Kommentar          string             `bson:"kommentar,omitempty" json:"kommentar,omitempty"`
	Status             string             `bson:"status" json:"status"` // "offen" | "angenommen" | "abgelehnt"
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}
