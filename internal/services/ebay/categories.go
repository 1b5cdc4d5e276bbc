package ebay

// Category is one entry of eBay's primary category taxonomy.
type Category struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// PrimaryCategories lists eBay's top-level categories. Sellers are usually
// concentrated in a handful of these; seller validation probes each one.
var PrimaryCategories = []Category{
	{Name: "Antiques", ID: "20081"},
	{Name: "Art", ID: "550"},
	{Name: "Baby", ID: "2984"},
	{Name: "Books & Magazines", ID: "267"},
	{Name: "Business & Industrial", ID: "12576"},
	{Name: "Cameras & Photo", ID: "625"},
	{Name: "Cell Phones & Accessories", ID: "15032"},
	{Name: "Clothing, Shoes & Accessories", ID: "11450"},
	{Name: "Coins & Paper Money", ID: "11116"},
	{Name: "Collectibles", ID: "1"},
	{Name: "Computers/Tablets & Networking", ID: "58058"},
	{Name: "Consumer Electronics", ID: "293"},
	{Name: "Crafts", ID: "14339"},
	{Name: "Dolls & Bears", ID: "237"},
	{Name: "Entertainment Memorabilia", ID: "45100"},
	{Name: "Everything Else", ID: "99"},
	{Name: "Gift Cards & Coupons", ID: "172008"},
	{Name: "Health & Beauty", ID: "26395"},
	{Name: "Home & Garden", ID: "11700"},
	{Name: "Jewelry & Watches", ID: "281"},
	{Name: "Motors", ID: "6000"},
	{Name: "Movies & TV", ID: "11232"},
	{Name: "Music", ID: "11233"},
	{Name: "Musical Instruments & Gear", ID: "619"},
	{Name: "Pet Supplies", ID: "1281"},
	{Name: "Pottery & Glass", ID: "870"},
	{Name: "Real Estate", ID: "10542"},
	{Name: "Specialty Services", ID: "316"},
	{Name: "Sporting Goods", ID: "888"},
	{Name: "Sports Mem, Cards & Fan Shop", ID: "64482"},
	{Name: "Stamps", ID: "260"},
	{Name: "Tickets & Experiences", ID: "1305"},
	{Name: "Toys & Hobbies", ID: "220"},
	{Name: "Travel", ID: "3252"},
	{Name: "Video Games & Consoles", ID: "1249"},
}
