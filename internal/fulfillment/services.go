package fulfillment

import "github.com/azursoldev/likes-io/internal/catalog"

type panelKey struct {
	Platform catalog.Platform
	Service  catalog.ServiceType
	Quality  catalog.Quality
}

// Default panel service ids per combination, used when the cataloged tier
// does not pin one. Numeric ids follow the panel's service list.
var defaultPanelServices = map[panelKey]string{
	{catalog.PlatformInstagram, catalog.ServiceLikes, catalog.QualityHigh}:          "1101",
	{catalog.PlatformInstagram, catalog.ServiceLikes, catalog.QualityPremium}:       "1102",
	{catalog.PlatformInstagram, catalog.ServiceFollowers, catalog.QualityHigh}:      "1201",
	{catalog.PlatformInstagram, catalog.ServiceFollowers, catalog.QualityPremium}:   "1202",
	{catalog.PlatformInstagram, catalog.ServiceViews, catalog.QualityHigh}:          "1301",
	{catalog.PlatformInstagram, catalog.ServiceViews, catalog.QualityPremium}:       "1302",
	{catalog.PlatformTikTok, catalog.ServiceLikes, catalog.QualityHigh}:             "2101",
	{catalog.PlatformTikTok, catalog.ServiceLikes, catalog.QualityPremium}:          "2102",
	{catalog.PlatformTikTok, catalog.ServiceFollowers, catalog.QualityHigh}:         "2201",
	{catalog.PlatformTikTok, catalog.ServiceFollowers, catalog.QualityPremium}:      "2202",
	{catalog.PlatformTikTok, catalog.ServiceViews, catalog.QualityHigh}:             "2301",
	{catalog.PlatformTikTok, catalog.ServiceViews, catalog.QualityPremium}:          "2302",
	{catalog.PlatformYouTube, catalog.ServiceLikes, catalog.QualityHigh}:            "3101",
	{catalog.PlatformYouTube, catalog.ServiceLikes, catalog.QualityPremium}:         "3102",
	{catalog.PlatformYouTube, catalog.ServiceViews, catalog.QualityHigh}:            "3301",
	{catalog.PlatformYouTube, catalog.ServiceViews, catalog.QualityPremium}:         "3302",
	{catalog.PlatformYouTube, catalog.ServiceSubscribers, catalog.QualityHigh}:      "3401",
	{catalog.PlatformYouTube, catalog.ServiceSubscribers, catalog.QualityPremium}:   "3402",
}
