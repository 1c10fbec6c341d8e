package banner

// The extraction scripts run inside the page and return plain candidate
// objects; all URL resolution, dedupe, and title picking happen on the Go
// side. jsHelpers is prepended to every script.

const jsHelpers = `
var norm = function (s) { return (s || '').replace(/\s+/g, ' ').trim(); };
var cssURL = function (v) {
	if (!v || v.indexOf('url(') === -1) return '';
	var s = v.split('url(')[1].split(')')[0].trim();
	return s.replace(/^["']/, '').replace(/["']$/, '');
};
var firstFromSrcset = function (ss) {
	if (!ss) return '';
	var first = ss.split(',')[0].trim();
	return first.split(' ')[0] || '';
};
var attrImg = function (el, names) {
	for (var i = 0; i < names.length; i++) {
		var v = el.getAttribute(names[i]);
		if (v && v.indexOf('data:') !== 0) return v;
	}
	return '';
};
var pickImg = function (el) {
	if (!el) return '';
	var v = cssURL(el.getAttribute('style') || '');
	if (v) return v;
	var poster = el.getAttribute('poster') || el.getAttribute('data-poster') || el.getAttribute('data-poster-url') || '';
	if (poster) return poster;
	v = attrImg(el, ['data-bg', 'data-background', 'data-image', 'data-img', 'data-src', 'data-original']);
	if (v) return v;
	v = cssURL(getComputedStyle(el).backgroundImage);
	if (v) return v;
	var bg = el.querySelector('[style*="background-image"]');
	if (bg) {
		v = cssURL(bg.getAttribute('style') || '');
		if (v) return v;
	}
	var source = el.querySelector('picture source[srcset], source[srcset]');
	if (source) {
		v = firstFromSrcset(source.getAttribute('srcset'));
		if (v) return v;
	}
	var img = el.querySelector('img');
	if (img) {
		v = attrImg(img, ['src', 'data-src', 'data-lazy', 'data-original', 'data-img', 'data-image']);
		if (v) return v;
		v = firstFromSrcset(img.getAttribute('srcset'));
		if (v) return v;
	}
	var nodes = el.querySelectorAll('div, span, a, section, figure');
	var n = Math.min(nodes.length, 60);
	for (var k = 0; k < n; k++) {
		v = cssURL(getComputedStyle(nodes[k]).backgroundImage);
		if (v) return v;
		v = cssURL(getComputedStyle(nodes[k], '::before').backgroundImage);
		if (v) return v;
		v = cssURL(getComputedStyle(nodes[k], '::after').backgroundImage);
		if (v) return v;
	}
	return '';
};
var altText = function (el) {
	var img = el.querySelector('img[alt]');
	return img ? norm(img.getAttribute('alt')) : '';
};
var firstText = function (el, sel) {
	var t = el.querySelector(sel);
	return norm(t ? t.innerText : '');
};
`

// candidate mirrors the object shape the scripts return.
type candidate struct {
	Href  string `json:"href"`
	Img   string `json:"img"`
	Alt   string `json:"alt"`
	Text  string `json:"txt"`
	Index int    `json:"idx"`
}

const tnfSlickJS = `(function () {` + jsHelpers + `
	var root = document.querySelector('[data-module-main-slick-slider]')
		|| document.querySelector('.st_component-slider')
		|| document;
	var slides = Array.prototype.filter.call(
		root.querySelectorAll('.slide-item.slick-slide[data-slick-index]'),
		function (el) {
			return !el.classList.contains('slick-cloned')
				&& (el.getAttribute('data-slick-index') || '0') !== '-1';
		});
	return slides.map(function (el, i) {
		var a = el.querySelector('a[href]');
		return {
			href: a ? (a.getAttribute('href') || '') : '',
			img: pickImg(el),
			alt: altText(el),
			txt: firstText(el, '.img-title-wrap, .slider-contents, h1, h2, h3, p, strong'),
			idx: i
		};
	});
})()`

const blackyakSwiperJS = `(function () {` + jsHelpers + `
	var root = document.querySelector('#main_banner_section') || document;
	var anchors = Array.prototype.filter.call(
		root.querySelectorAll('.MAIN-VISUAL-SWIPER .swiper-slide a.item, .MAIN-VISUAL-SWIPER .swiper-slide a'),
		function (a) { return a && a.querySelector('img'); });
	return anchors.map(function (a, i) {
		var t2 = firstText(a, '.TEXT-2');
		var t3 = firstText(a, '.TEXT-3');
		return {
			href: a.getAttribute('href') || '',
			img: pickImg(a),
			alt: altText(a),
			txt: norm(t2 + ' ' + t3),
			idx: i
		};
	});
})()`

const discoverySwiperJS = `(function () {` + jsHelpers + `
	var root = document.querySelector('.click_banner_main');
	if (!root) return [];
	var slides = root.querySelectorAll('div.swiper-slide');
	var out = [];
	var n = Math.min(slides.length, 24);
	for (var i = 0; i < n; i++) {
		var sl = slides[i];
		var a = sl.querySelector('a[href]');
		var idx = 9999;
		var v = sl.getAttribute('data-swiper-slide-index') || '';
		if (/^\d+$/.test(v.trim())) idx = parseInt(v.trim(), 10);
		var txt = firstText(sl, '.click_banner_main_name');
		if (!txt) txt = norm(sl.innerText || '');
		out.push({
			href: a ? (a.getAttribute('href') || '') : '',
			img: pickImg(sl),
			alt: altText(sl),
			txt: txt,
			idx: idx
		});
	}
	out.sort(function (x, y) { return x.idx - y.idx; });
	return out;
})()`

// NEPA renders its promo banners inside same-origin iframes at times, so
// the scan covers reachable frame documents too.
const nepaStaticJS = `(function () {` + jsHelpers + `
	var docs = [document];
	var frames = document.querySelectorAll('iframe');
	for (var f = 0; f < frames.length; f++) {
		try {
			if (frames[f].contentDocument) docs.push(frames[f].contentDocument);
		} catch (e) {}
	}
	var out = [];
	for (var d = 0; d < docs.length; d++) {
		var doc = docs[d];
		for (var idx = 1; idx < 30; idx++) {
			var pad = (idx < 10 ? '0' : '') + idx;
			var box = doc.querySelector('#pcContents .promo-banner' + pad + '.promo-banner')
				|| doc.querySelector('#pcContents .promo-banner' + idx + '.promo-banner')
				|| doc.querySelector('.promo-banner' + pad + '.promo-banner')
				|| doc.querySelector('.promo-banner' + idx + '.promo-banner');
			if (!box) continue;
			var a = box.querySelector('a[href]');
			out.push({
				href: a ? (a.getAttribute('href') || '') : '',
				img: pickImg(box),
				alt: altText(box),
				txt: norm(box.innerText || ''),
				idx: idx
			});
		}
		if (out.length) break;
	}
	return out;
})()`

// The Patagonia home page has no carousel; the hero is the largest visible
// element with an image near the top of the viewport.
const patagoniaHeroJS = `(function () {` + jsHelpers + `
	var vw = window.innerWidth || 1440;
	var candidates = document.querySelectorAll('section, div');
	var n = Math.min(candidates.length, 220);
	var best = null;
	var bestArea = 0;
	for (var i = 0; i < n; i++) {
		var el = candidates[i];
		if (el.offsetParent === null) continue;
		var r = el.getBoundingClientRect();
		if (r.y < -80 || r.y > 520) continue;
		if (r.width < vw * 0.75 || r.height < 320) continue;
		var img = pickImg(el);
		if (!img) continue;
		var area = r.width * r.height;
		if (area > bestArea) {
			bestArea = area;
			best = el;
		}
	}
	if (!best) return [];
	var a = best.querySelector('a[href]');
	return [{
		href: a ? (a.getAttribute('href') || '') : '',
		img: pickImg(best),
		alt: altText(best),
		txt: firstText(best, 'h1, h2, h3, strong'),
		idx: 0
	}];
})()`

const genericTopJS = `(function () {` + jsHelpers + `
	var vw = window.innerWidth || 1440;
	var yMax = 1400;
	var candidates = document.querySelectorAll('a, section, div');
	var n = Math.min(candidates.length, 420);
	var out = [];
	var seen = {};
	for (var i = 0; i < n && out.length < 12; i++) {
		var el = candidates[i];
		if (el.offsetParent === null) continue;
		var r = el.getBoundingClientRect();
		if (r.y < -120 || r.y > yMax) continue;
		if (r.width < vw * 0.55 || r.height < 180) continue;
		var img = pickImg(el);
		var href = '';
		if (el.tagName.toLowerCase() === 'a') {
			href = el.getAttribute('href') || '';
		} else {
			var a = el.querySelector('a[href]');
			if (a) href = a.getAttribute('href') || '';
		}
		if (!img && !href) continue;
		var fp = href + '\n' + img;
		if (seen[fp]) continue;
		seen[fp] = true;
		out.push({
			href: href,
			img: img,
			alt: altText(el),
			txt: firstText(el, 'h1, h2, h3, strong, p'),
			idx: i
		});
	}
	return out;
})()`

func scriptForMode(mode string) string {
	switch mode {
	case ModeTNFSlick:
		return tnfSlickJS
	case ModeBlackyakSwipe:
		return blackyakSwiperJS
	case ModeDiscoverySw:
		return discoverySwiperJS
	case ModeNepaStatic:
		return nepaStaticJS
	case ModePatagoniaHero:
		return patagoniaHeroJS
	default:
		return genericTopJS
	}
}

// closePopupsJS clicks visible close/consent buttons twice over; cookie
// layers and app-download modals otherwise cover the hero area.
const closePopupsJS = `(function () {
	var labels = ['닫기', 'close', '확인', '동의', '오늘 하루 보지 않기'];
	var sels = '.modal .close, .popup .close, .layer .close, .btn-close, ' +
		'button[aria-label*="close" i], button[aria-label*="닫기"]';
	for (var round = 0; round < 2; round++) {
		var nodes = document.querySelectorAll(sels);
		for (var i = 0; i < nodes.length; i++) {
			if (nodes[i].offsetParent !== null) {
				try { nodes[i].click(); } catch (e) {}
			}
		}
		var buttons = document.querySelectorAll('button, a');
		for (var j = 0; j < buttons.length; j++) {
			var b = buttons[j];
			if (b.offsetParent === null) continue;
			var t = (b.textContent || '').trim().toLowerCase();
			for (var k = 0; k < labels.length; k++) {
				if (t === labels[k]) {
					try { b.click(); } catch (e) {}
					break;
				}
			}
		}
	}
	return true;
})()`

const scrollNudgeJS = `(function () {
	window.scrollTo(0, 150);
	setTimeout(function () { window.scrollTo(0, 600); }, 250);
	setTimeout(function () { window.scrollTo(0, 0); }, 550);
	return true;
})()`
