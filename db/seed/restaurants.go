package main

import "github.com/onurcolak/restaurant-concierge/internal/domain"

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

var welcomeTemplates = domain.Templates{
	domain.LangItalian: "Ciao {{firstName}}, benvenuto da {{restaurantName}}! 🍝\n" +
		"Ecco il nostro menu: {{menuUrl}}\n{{wifiInfo}}\nBuon appetito!",
	domain.LangEnglish: "Hi {{firstName}}, welcome to {{restaurantName}}! 🍝\n" +
		"Here is our menu: {{menuUrl}}\n{{wifiInfo}}\nEnjoy your meal!",
	domain.LangGerman: "Hallo {{firstName}}, willkommen bei {{restaurantName}}! 🍝\n" +
		"Hier ist unsere Speisekarte: {{menuUrl}}\n{{wifiInfo}}\nGuten Appetit!",
	domain.LangFrench: "Bonjour {{firstName}}, bienvenue chez {{restaurantName}} ! 🍝\n" +
		"Voici notre menu : {{menuUrl}}\n{{wifiInfo}}\nBon appétit !",
	domain.LangSpanish: "¡Hola {{firstName}}, bienvenido a {{restaurantName}}! 🍝\n" +
		"Aquí está nuestro menú: {{menuUrl}}\n{{wifiInfo}}\n¡Buen provecho!",
}

var reviewTemplates = domain.Templates{
	domain.LangItalian: "Grazie per essere stato da {{restaurantName}}, {{firstName}}! Ci lasci una recensione? {{reviewLink}}",
	domain.LangEnglish: "Thanks for visiting {{restaurantName}}, {{firstName}}! Would you leave us a review? {{reviewLink}}",
	domain.LangGerman:  "Danke für Ihren Besuch bei {{restaurantName}}, {{firstName}}! Hinterlassen Sie uns eine Bewertung? {{reviewLink}}",
	domain.LangFrench:  "Merci de votre visite chez {{restaurantName}}, {{firstName}} ! Laissez-nous un avis : {{reviewLink}}",
	domain.LangSpanish: "¡Gracias por visitar {{restaurantName}}, {{firstName}}! ¿Nos dejas una reseña? {{reviewLink}}",
}

func demoRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{
			TriggerName:      "trattoria roma",
			Name:             "Trattoria Roma",
			WelcomeTemplates: welcomeTemplates,
			ReviewTemplates:  reviewTemplates,
			MenuURL:          strPtr("https://example.com/trattoria-roma/menu"),
			WifiPassword:     strPtr("carbonara2024"),
			ReviewLink:       strPtr("https://g.page/r/trattoria-roma/review"),
		},
		{
			TriggerName:      "la cucina italiana",
			Name:             "La Cucina Italiana",
			WelcomeTemplates: welcomeTemplates,
			ReviewTemplates:  reviewTemplates,
			ReviewDelayHours: floatPtr(3),
			MenuURL:          strPtr("https://example.com/la-cucina-italiana/menu"),
			ReviewLink:       strPtr("https://g.page/r/la-cucina-italiana/review"),
		},
		{
			// English-only templates: every other language falls back to en.
			TriggerName: "osteria del porto",
			Name:        "Osteria del Porto",
			WelcomeTemplates: domain.Templates{
				domain.LangEnglish: welcomeTemplates[domain.LangEnglish],
			},
			ReviewTemplates: domain.Templates{
				domain.LangEnglish: reviewTemplates[domain.LangEnglish],
			},
			ReviewDelayHours: floatPtr(1.5),
			MenuURL:          strPtr("https://example.com/osteria-del-porto/menu"),
			WifiPassword:     strPtr("portofino"),
			ReviewLink:       strPtr("https://g.page/r/osteria-del-porto/review"),
		},
	}
}
