package domain

import "github.com/shopspring/decimal"

const DefaultContactNumber = "5511999999999"

const DefaultAssistantInstruction = `Você é o "Garçom Virtual do Kal", um assistente especialista em churrasco e harmonização de bebidas para o estabelecimento "Kal do Espetinho".
O ambiente é premium, escuro com neon laranja, sofisticado mas acolhedor.

Suas responsabilidades:
1. Sugerir combinações (ex: "A Picanha vai muito bem com uma Heineken gelada").
2. Explicar detalhes dos pratos.
3. Ser educado, breve e usar emojis relacionados a churrasco e cerveja 🍢🍺.
4. Se perguntarem algo fora do cardápio, diga gentilmente que não temos, mas sugira algo similar do menu.
5. Mantenha as respostas curtas (máximo 3 frases).`

func DefaultSettings() StoreSettings {
	return StoreSettings{
		ContactNumber:        DefaultContactNumber,
		MenuLayout:           LayoutStandard,
		DeliveryFee:          decimal.NewFromInt(5),
		AssistantInstruction: DefaultAssistantInstruction,
	}
}

func seedItem(id, name, description, price string, category Category, image string, popular bool) CatalogItem {
	return CatalogItem{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		ImageURL:    "https://images.unsplash.com/" + image + "?q=80&w=400&h=300&auto=format&fit=crop",
		Popular:     popular,
	}
}

// DefaultMenu is the catalog a fresh store starts with.
func DefaultMenu() []CatalogItem {
	return []CatalogItem{
		seedItem("1", "Espetinho de Picanha", "Picanha Angus selecionada, temperada com sal grosso.", "18.00", CategorySkewers, "photo-1544022613-e87ca75a784a", true),
		seedItem("2", "Medalhão de Frango", "Cubos de peito de frango envoltos em bacon crocante.", "14.00", CategorySkewers, "photo-1603360946369-dc9bb6258143", false),
		seedItem("14", "Coração de Frango", "Coraçãozinho marinado no vinho branco e ervas finas.", "13.00", CategorySkewers, "photo-1626074353765-517a681e40be", true),
		seedItem("15", "Pão de Alho Especial", "Pão bolinha recheado com creme de alho e muito queijo.", "9.00", CategorySides, "photo-1573140247632-f8fd74997d5c", true),
		seedItem("16", "Costela Bovina", "Costela assada lentamente, desmanchando na boca.", "22.00", CategorySkewers, "photo-1544022613-e87ca75a784a", true),
		seedItem("3", "Linguiça Cuiabana", "Linguiça artesanal recheada com queijo coalho e ervas.", "12.00", CategorySkewers, "photo-1585325701166-381691273970", false),
		seedItem("4", "Kafta Premium", "Carne moída temperada com hortelã e especiarias.", "12.00", CategorySkewers, "photo-1529193591184-b1d58069ecdd", false),
		seedItem("5", "Queijo Coalho", "Queijo coalho na brasa com melaço de cana opcional.", "10.00", CategorySkewers, "photo-1559561853-08451507cbe7", false),
		seedItem("6", "Tábua do Kal (Mista)", "Picanha, linguiça, frango, fritas e farofa. Serve 3 pessoas.", "85.00", CategoryPortions, "photo-1602484210602-d42353002747", true),
		seedItem("7", "Carne de Sol com Mandioca", "Carne de sol serenada na manteiga de garrafa.", "65.00", CategoryPortions, "photo-1603048588665-791ca8aea617", false),
		seedItem("8", "Frango a Passarinho", "Crocante, coberto com alho frito e salsinha.", "45.00", CategoryPortions, "photo-1562967914-608f82629710", false),
		seedItem("9", "Batata Frita Especial", "Fritas com cheddar e bacon crocante.", "32.00", CategoryPortions, "photo-1573014320204-825bc531d044", false),
		seedItem("10", "Heineken 600ml", "Estupidamente gelada.", "16.00", CategoryDrinks, "photo-1618885472179-5e474019f2a9", false),
		seedItem("11", "Spaten 600ml", "Cerveja puro malte.", "14.00", CategoryDrinks, "photo-1558644815-4c1d71c25c64", false),
		seedItem("12", "Caipirinha de Limão", "Cachaça artesanal, limão taiti e açúcar.", "18.00", CategoryDrinks, "photo-1513558161293-cdaf765ed2fd", false),
		seedItem("13", "Refrigerante Lata", "Coca-cola, Guaraná, Sprite.", "6.00", CategoryDrinks, "photo-1622483767028-3f66f32aef97", false),
	}
}
